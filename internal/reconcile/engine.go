package reconcile

import (
	"log/slog"
	"sync/atomic"

	"examtally/internal/bank"
	"examtally/internal/config"
	"examtally/internal/logging"
	"examtally/internal/textutil"
)

// Kind records how a fragment was resolved.
type Kind int

const (
	NoMatch Kind = iota
	Exact
	Forward
	Reverse
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "none"
	}
}

// Match is the outcome of resolving one fragment.
type Match struct {
	Kind     Kind
	Fragment string
	Ref      bank.Ref
	// Ratio is 1 for exact matches and the adopted similarity otherwise.
	Ratio float64
	// Candidate is the bank text the fragment resolved to.
	Candidate string
}

// Matched reports whether the fragment resolved to a slot.
func (m Match) Matched() bool { return m.Kind != NoMatch }

// ReverseMode selects when the reversed-string pass runs.
type ReverseMode string

const (
	// ReverseAlways runs the reverse pass after every forward pass; it
	// replaces the forward result only on strict improvement.
	ReverseAlways ReverseMode = config.ReversePassAlways
	// ReverseFallback runs the reverse pass only when the forward pass
	// found nothing.
	ReverseFallback ReverseMode = config.ReversePassFallback
)

// DefaultThreshold is the similarity a candidate must exceed.
const DefaultThreshold = 0.5

// Options configure an Engine.
type Options struct {
	Threshold float64
	Reverse   ReverseMode
	Logger    *slog.Logger
}

// OptionsFromConfig maps the matching section onto engine options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Threshold: cfg.Matching.Threshold,
		Reverse:   ReverseMode(cfg.Matching.ReversePass),
		Logger:    logger,
	}
}

// Stats counts resolutions by kind.
type Stats struct {
	Exact   int
	Forward int
	Reverse int
	None    int
}

// Total returns the number of resolutions counted.
func (s Stats) Total() int { return s.Exact + s.Forward + s.Reverse + s.None }

// Engine resolves fragments against a bank. It is safe for concurrent use.
type Engine struct {
	bank       *bank.Bank
	threshold  float64
	reverse    ReverseMode
	candidates []bank.Candidate
	reversed   []string
	logger     *slog.Logger
	counts     [4]atomic.Int64
}

// NewEngine prepares the candidate pool of b.
func NewEngine(b *bank.Bank, opts Options) *Engine {
	if opts.Reverse == "" {
		opts.Reverse = ReverseAlways
	}
	e := &Engine{
		bank:       b,
		threshold:  opts.Threshold,
		reverse:    opts.Reverse,
		candidates: b.Candidates(),
		logger:     logging.NewComponentLogger(opts.Logger, "reconcile"),
	}
	e.reversed = make([]string, len(e.candidates))
	for i, c := range e.candidates {
		e.reversed[i] = textutil.Reverse(c.Text)
	}
	return e
}

// Bank returns the bank the engine resolves against.
func (e *Engine) Bank() *bank.Bank { return e.bank }

// Resolve finds the slot for fragment without recording anything.
func (e *Engine) Resolve(fragment string) Match {
	if ref, ok := e.bank.Lookup(fragment); ok {
		return Match{Kind: Exact, Fragment: fragment, Ref: ref, Ratio: 1, Candidate: fragment}
	}

	best := -1
	bestRatio := e.threshold
	kind := NoMatch
	for i, c := range e.candidates {
		if r := textutil.Ratio(fragment, c.Text); r > bestRatio {
			best, bestRatio, kind = i, r, Forward
		}
	}

	if e.reverse == ReverseAlways || best < 0 {
		rev := textutil.Reverse(fragment)
		for i := range e.candidates {
			if r := textutil.Ratio(rev, e.reversed[i]); r > bestRatio {
				best, bestRatio, kind = i, r, Reverse
			}
		}
	}

	if best < 0 {
		return Match{Kind: NoMatch, Fragment: fragment}
	}
	text := e.candidates[best].Text
	ref, ok := e.bank.Lookup(text)
	if !ok {
		// Candidates come from the bank index, so this only happens if the
		// pool and bank disagree.
		return Match{Kind: NoMatch, Fragment: fragment}
	}
	return Match{Kind: kind, Fragment: fragment, Ref: ref, Ratio: bestRatio, Candidate: text}
}

// Record resolves fragment and, when it matches, writes score into its slot.
// An unmatched fragment writes nothing.
func (e *Engine) Record(scores *Scores, fragment string, score float64) Match {
	m := e.Resolve(fragment)
	e.counts[m.Kind].Add(1)
	if !m.Matched() {
		e.logger.Debug("fragment unmatched", logging.Fragment(fragment))
		return m
	}
	if !scores.Set(m.Ref, score) {
		e.logger.Warn("score slot out of range",
			logging.String("ref", m.Ref.String()),
			logging.String(logging.FieldImpact, "score dropped"),
		)
	}
	if m.Kind != Exact {
		e.logger.Debug("approximate match",
			logging.String("kind", m.Kind.String()),
			logging.Fragment(fragment),
			logging.Candidate(m.Candidate),
			logging.Ratio(m.Ratio),
		)
	}
	return m
}

// Stats returns resolution counts since the engine was built.
func (e *Engine) Stats() Stats {
	return Stats{
		Exact:   int(e.counts[Exact].Load()),
		Forward: int(e.counts[Forward].Load()),
		Reverse: int(e.counts[Reverse].Load()),
		None:    int(e.counts[NoMatch].Load()),
	}
}
