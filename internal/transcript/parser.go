package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"examtally/internal/logging"
	"examtally/internal/reconcile"
	"examtally/internal/textutil"
)

// Result is the parse of one transcript. It is not modified after Parse
// returns.
type Result struct {
	Source      string
	StudentName string
	// TotalScore is the sum of every announced score, rounded to one decimal.
	TotalScore float64
	Scores     *reconcile.Scores
	Matches    []reconcile.Match
	// Unmatched lists fragments that resolved to no bank question.
	Unmatched     []string
	IgnoredScores int
}

// Options configure a Parser.
type Options struct {
	Markers    Markers
	Normalizer textutil.Normalizer
	Logger     *slog.Logger
}

// Parser turns transcript units into a Result using a shared engine.
type Parser struct {
	markers    Markers
	normalizer textutil.Normalizer
	engine     *reconcile.Engine
	logger     *slog.Logger
}

// NewParser returns a Parser that records scores through engine.
func NewParser(opts Options, engine *reconcile.Engine) *Parser {
	return &Parser{
		markers:    opts.Markers,
		normalizer: opts.Normalizer,
		engine:     engine,
		logger:     logging.NewComponentLogger(opts.Logger, "transcript"),
	}
}

// Parse scans units in order. A malformed score fails the whole transcript.
func (p *Parser) Parse(source string, units []string) (*Result, error) {
	result := &Result{
		Source: source,
		Scores: reconcile.NewScores(p.engine.Bank()),
	}
	scanner := NewScanner(p.markers, p.normalizer)
	total := 0.0

	for i, unit := range units {
		ev, err := scanner.Feed(unit)
		if err != nil {
			return nil, fmt.Errorf("%s unit %d: %w", source, i+1, err)
		}
		if ev.NameSet {
			result.StudentName = ev.Name
		}
		if ev.Ignored {
			result.IgnoredScores++
		}
		if !ev.Scored {
			continue
		}
		total += ev.Score
		m := p.engine.Record(result.Scores, ev.Fragment, ev.Score)
		result.Matches = append(result.Matches, m)
		if !m.Matched() {
			result.Unmatched = append(result.Unmatched, ev.Fragment)
		}
	}

	result.TotalScore = roundTenth(total)
	return result, nil
}

// ParseFile reads the transcript at path and parses it.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx, p.logger)

	units, err := ReadParagraphs(path)
	if err != nil {
		return nil, err
	}
	result, err := p.Parse(path, units)
	if err != nil {
		return nil, err
	}

	for _, fragment := range result.Unmatched {
		logging.WarnWithContext(logger, "fragment unmatched", "transcript_unmatched",
			logging.Fragment(fragment),
			logging.String(logging.FieldImpact, "score not attributed to any question"),
			logging.String(logging.FieldErrorHint, "compare the fragment with the bank text or lower matching.threshold"),
		)
	}
	logger.Info("transcript parsed",
		logging.String("student", result.StudentName),
		logging.Float64("total", result.TotalScore),
		logging.Int("scored", len(result.Matches)),
		logging.Int("unmatched", len(result.Unmatched)),
		logging.Int("ignored_scores", result.IgnoredScores),
	)
	return result, nil
}

// roundTenth rounds to one decimal place from the exact binary value, ties
// to even, so 2.25 becomes 2.2 and 0.15 (stored just below) becomes 0.1.
func roundTenth(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
