package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"examtally/internal/aggregate"
	"examtally/internal/bank"
	"examtally/internal/config"
	"examtally/internal/emit"
	"examtally/internal/logging"
	"examtally/internal/reconcile"
	"examtally/internal/textutil"
	"examtally/internal/transcript"
)

// previewTextWidth bounds the question column of the console preview.
const previewTextWidth = 48

// Request describes one batch.
type Request struct {
	// BankPath overrides cfg.Paths.Bank when set.
	BankPath string
	// Transcripts are files or directories to expand with Discover.
	Transcripts []string
	// Output overrides cfg.Paths.Output when set.
	Output string
	// Format overrides cfg.Output.Format when set.
	Format string
	// Preview, when non-nil, receives a console rendering of the table.
	Preview io.Writer
	// SkipWrite builds the table without emitting a file.
	SkipWrite bool
}

// Runner executes batches against a configuration.
type Runner struct {
	cfg       *config.Config
	base      *slog.Logger
	logger    *slog.Logger
	confirmer emit.Confirmer
	newRunID  func() string
}

// RunnerOption configures optional Runner behavior.
type RunnerOption func(*Runner)

// WithConfirmer sets the overwrite confirmer used under the ask policy.
func WithConfirmer(c emit.Confirmer) RunnerOption {
	return func(r *Runner) { r.confirmer = c }
}

// WithRunIDGenerator replaces the random run ID source.
func WithRunIDGenerator(fn func() string) RunnerOption {
	return func(r *Runner) { r.newRunID = fn }
}

// NewRunner constructs a Runner.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the bank, parses the transcripts, aggregates, and writes the
// output. The returned Report is non-nil whenever the bank loaded, even if a
// later step fails.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	runID := r.newRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	// Components add their own component attribute to the run-scoped base.
	base := logging.WithContext(ctx, r.base)

	paths, err := Discover(req.Transcripts)
	if err != nil {
		return nil, err
	}

	bankPath := firstNonEmpty(req.BankPath, r.cfg.Paths.Bank)
	b, err := bank.LoadFile(bankPath, r.cfg.Bank.Sheet, bank.OptionsFromConfig(r.cfg, base))
	if err != nil {
		return nil, err
	}

	engine := reconcile.NewEngine(b, reconcile.OptionsFromConfig(r.cfg, base))
	markers, err := transcript.MarkersFromConfig(r.cfg)
	if err != nil {
		return nil, err
	}
	parser := transcript.NewParser(transcript.Options{
		Markers:    markers,
		Normalizer: textutil.Normalizer{FoldWidth: r.cfg.Transcript.FoldWidth},
		Logger:     r.base,
	}, engine)

	report := &Report{
		RunID:    runID,
		BankPath: bankPath,
		Bank:     b.Stats(),
		Output:   firstNonEmpty(req.Output, r.cfg.Paths.Output),
	}
	logger.Info("run started",
		logging.String("bank", bankPath),
		logging.Int("questions", b.Total()),
		logging.Int("transcripts", len(paths)),
	)

	report.Outcomes, err = r.parseAll(ctx, parser, paths)
	report.Matches = engine.Stats()
	if err != nil {
		return report, err
	}

	results := report.Results()
	if len(results) == 0 {
		return report, fmt.Errorf("all %d transcripts failed", len(paths))
	}
	report.Table = aggregate.Build(b, results)

	labels := emit.LabelsFor(r.cfg.Output.Language)
	if req.Preview != nil {
		if err := emit.Preview(req.Preview, report.Table, labels, previewTextWidth); err != nil {
			return report, fmt.Errorf("render preview: %w", err)
		}
	}

	if !req.SkipWrite {
		opts := emit.OptionsFromConfig(r.cfg, r.confirmer, runID, r.base)
		if req.Format != "" {
			opts.Format = req.Format
		}
		if err := emit.Write(ctx, report.Table, report.Output, opts); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		report.Written = true
	}

	report.Duration = time.Since(start)
	logger.Info("run finished",
		logging.Int("parsed", len(results)),
		logging.Int("failed", len(report.Failures())),
		logging.Int("exact", report.Matches.Exact),
		logging.Int("approximate", report.Matches.Forward+report.Matches.Reverse),
		logging.Int("unmatched", report.Matches.None),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

// parseAll parses paths on a bounded pool. Outcomes keep input order; a
// failed transcript never stops the others. Cancellation stops scheduling.
func (r *Runner) parseAll(ctx context.Context, parser *transcript.Parser, paths []string) ([]Outcome, error) {
	workers := r.cfg.Workflow.Workers
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			tctx := logging.WithTranscript(ctx, path)
			res, err := parser.ParseFile(tctx, path)
			outcomes[i] = Outcome{Source: path, Result: res, Err: err}
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.WarnWithContext(logging.WithContext(tctx, r.logger), "transcript failed", "transcript_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "transcript excluded from the output table"),
					logging.String(logging.FieldErrorHint, "fix the transcript and rerun"),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
