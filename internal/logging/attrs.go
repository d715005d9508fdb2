package logging

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// Structured field keys. The console handler lifts FieldComponent and
// FieldRunID into the line header instead of printing them as key=value.
const (
	FieldComponent  = "component"
	FieldRunID      = "run_id"
	FieldTranscript = "transcript"
	// FieldFragment is a normalized question fragment read from a transcript.
	FieldFragment = "fragment"
	// FieldCandidate is the bank question text a fragment resolved to.
	FieldCandidate = "candidate"
	FieldRatio     = "ratio"
	FieldOutput    = "path"
	// FieldEventType classifies warnings for filtering, e.g. bank_unknown_type.
	FieldEventType = "event_type"
	// FieldErrorHint carries the next step a user should take.
	FieldErrorHint = "error_hint"
	// FieldImpact says what the warning did to the score table.
	FieldImpact = "impact"
)

// Defaults used by WarnWithContext when the caller omits them.
const (
	defaultErrorHint = "see examtally.log in the log directory for details"
	defaultImpact    = "the score table may be incomplete"
)

type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Fragment tags a transcript question fragment.
func Fragment(text string) Attr { return slog.String(FieldFragment, text) }

// Candidate tags the bank question a fragment matched.
func Candidate(text string) Attr { return slog.String(FieldCandidate, text) }

// Ratio records a similarity ratio to three decimals.
func Ratio(r float64) Attr {
	return slog.String(FieldRatio, strconv.FormatFloat(r, 'f', 3, 64))
}

// OutputPath tags the destination of an emitted score table.
func OutputPath(path string) Attr { return slog.String(FieldOutput, path) }

func attrsToArgs(attrs []Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(nopHandler{})
}

// NewComponentLogger tags logger with a component name such as "bank" or
// "transcript". A nil logger yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint,
// and impact. Values supplied in attrs take precedence over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	if !hasKey(attrs, FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if !hasKey(attrs, FieldErrorHint) {
		attrs = append(attrs, String(FieldErrorHint, defaultErrorHint))
	}
	if !hasKey(attrs, FieldImpact) {
		attrs = append(attrs, String(FieldImpact, defaultImpact))
	}
	logger.Warn(msg, attrsToArgs(attrs)...)
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
