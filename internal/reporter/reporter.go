package reporter

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pthm/prosescan/internal/analyzer"
)

// ErrFindings is returned by reporters when a run reaches its failure
// threshold. The output has already been written when it is returned.
var ErrFindings = errors.New("findings threshold reached")

// Reporter defines the interface for outputting scan results
type Reporter interface {
	// Report outputs the results of a run
	Report(run *Run) error
}

// Run is one invocation of the scanner over a set of documents
type Run struct {
	ID        uuid.UUID          `json:"run_id"`
	StartedAt time.Time          `json:"started_at"`
	Reports   []*analyzer.Report `json:"reports"`
	Summary   analyzer.Summary   `json:"summary"`

	// FailOn is the number of findings at which the run fails. Zero
	// disables the check.
	FailOn int `json:"-"`
}

// NewRun assigns a run id and computes the summary
func NewRun(reports []*analyzer.Report, startedAt time.Time, failOn int) *Run {
	return &Run{
		ID:        uuid.New(),
		StartedAt: startedAt,
		Reports:   reports,
		Summary:   analyzer.Summarize(reports),
		FailOn:    failOn,
	}
}

// Failed reports whether the run reached its failure threshold
func (r *Run) Failed() bool {
	return r.FailOn > 0 && r.Summary.Findings >= r.FailOn
}

func checkThreshold(run *Run) error {
	if run.Failed() {
		return ErrFindings
	}
	return nil
}
