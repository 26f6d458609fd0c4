package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "prosescan "+Version) {
		t.Errorf("Info() = %q, want prefix %q", info, "prosescan "+Version)
	}
	if !strings.Contains(info, Commit) {
		t.Errorf("Info() = %q, missing commit %q", info, Commit)
	}
}

func TestShort(t *testing.T) {
	if got := Short(); got != Version {
		t.Errorf("Short() = %q, want %q", got, Version)
	}
}
