package workflow

import (
	"time"

	"examtally/internal/aggregate"
	"examtally/internal/bank"
	"examtally/internal/reconcile"
	"examtally/internal/transcript"
)

// Outcome is the parse result of one transcript. Exactly one of Result and
// Err is set.
type Outcome struct {
	Source string
	Result *transcript.Result
	Err    error
}

// Report summarises a run.
type Report struct {
	RunID    string
	BankPath string
	Bank     bank.Stats
	Outcomes []Outcome
	Matches  reconcile.Stats
	Table    aggregate.Table
	Output   string
	Written  bool
	Duration time.Duration
}

// Results returns the successful parses in input order.
func (r *Report) Results() []*transcript.Result {
	var out []*transcript.Result
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Result != nil {
			out = append(out, o.Result)
		}
	}
	return out
}

// Failures returns the outcomes that failed, in input order.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Unmatched counts fragments that resolved to no question across all
// successful transcripts.
func (r *Report) Unmatched() int {
	n := 0
	for _, res := range r.Results() {
		n += len(res.Unmatched)
	}
	return n
}
