// Package log writes verbose diagnostics.
package log

import (
	"fmt"
	"io"
)

// Logger writes diagnostic messages when Enabled is true.
// Output goes to W, normally stderr.
type Logger struct {
	Enabled bool
	W       io.Writer
}

// Printf writes a formatted line to W. It is a no-op when Enabled is
// false or the logger is nil.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || !l.Enabled {
		return
	}
	_, _ = fmt.Fprintf(l.W, format+"\n", args...)
}
