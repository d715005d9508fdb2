package bank

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"examtally/internal/config"
	"examtally/internal/logging"
	"examtally/internal/tabular"
	"examtally/internal/textutil"
)

var (
	// ErrMissingColumn reports a required header that is absent.
	ErrMissingColumn = errors.New("bank column missing")
	// ErrShortRow reports a row that does not reach the classification
	// columns under the reject policy.
	ErrShortRow = errors.New("bank row too short")
	// ErrDuplicateQuestion reports repeated question text within one type
	// under the reject policy.
	ErrDuplicateQuestion = errors.New("duplicate question text")
)

// DuplicatePolicy decides which slot a repeated question text resolves to.
type DuplicatePolicy string

const (
	// DuplicateOverwrite points the text at its last occurrence.
	DuplicateOverwrite DuplicatePolicy = config.DuplicateOverwrite
	// DuplicateFirst keeps the first occurrence.
	DuplicateFirst DuplicatePolicy = config.DuplicateFirst
	// DuplicateReject fails the load.
	DuplicateReject DuplicatePolicy = config.DuplicateReject
)

// ShortRowPolicy decides what happens to rows missing trailing cells.
type ShortRowPolicy string

const (
	ShortRowPad    ShortRowPolicy = config.ShortRowPad
	ShortRowReject ShortRowPolicy = config.ShortRowReject
)

// Options control how a table is read into a Bank.
type Options struct {
	TypeColumn            string
	QuestionColumn        string
	OptionColumns         []string
	AnswerColumn          string
	ClassificationColumns [3]int
	// Labels maps trimmed type discriminators to buckets.
	Labels map[string]Type
	// TrueFalseOptions replaces the option cells of true/false questions.
	TrueFalseOptions []string
	Duplicates       DuplicatePolicy
	ShortRows        ShortRowPolicy
	Normalizer       textutil.Normalizer
	Logger           *slog.Logger
}

// DefaultOptions mirrors the default configuration.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(&cfg, nil)
}

// OptionsFromConfig builds load options from the bank and transcript
// sections. The transcript normalizer is reused so bank text and transcript
// fragments are canonicalized identically.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	opts := Options{
		TypeColumn:       cfg.Bank.TypeColumn,
		QuestionColumn:   cfg.Bank.QuestionColumn,
		OptionColumns:    append([]string(nil), cfg.Bank.OptionColumns...),
		AnswerColumn:     cfg.Bank.AnswerColumn,
		Labels:           make(map[string]Type),
		TrueFalseOptions: append([]string(nil), cfg.Bank.TrueFalseOptions...),
		Duplicates:       DuplicatePolicy(cfg.Bank.DuplicatePolicy),
		ShortRows:        ShortRowPolicy(cfg.Bank.ShortRowPolicy),
		Normalizer:       textutil.Normalizer{FoldWidth: cfg.Transcript.FoldWidth},
		Logger:           logger,
	}
	copy(opts.ClassificationColumns[:], cfg.Bank.ClassificationColumns)
	for _, label := range cfg.Bank.SingleLabels {
		opts.Labels[strings.TrimSpace(label)] = Single
	}
	for _, label := range cfg.Bank.MultipleLabels {
		opts.Labels[strings.TrimSpace(label)] = Multiple
	}
	for _, label := range cfg.Bank.TrueFalseLabels {
		opts.Labels[strings.TrimSpace(label)] = TrueFalse
	}
	return opts
}

type columns struct {
	typ      int
	question int
	options  []int
	answer   int
}

func locateColumns(table tabular.Table, opts Options) (columns, error) {
	var cols columns
	var missing []string
	find := func(name string) int {
		idx, ok := table.ColumnIndex(name)
		if !ok {
			missing = append(missing, name)
		}
		return idx
	}
	cols.typ = find(opts.TypeColumn)
	cols.question = find(opts.QuestionColumn)
	for _, name := range opts.OptionColumns {
		cols.options = append(cols.options, find(name))
	}
	cols.answer = find(opts.AnswerColumn)
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// Load builds a Bank from table. Rows with an unrecognized type label are
// dropped, counted in Stats, and logged.
func Load(table tabular.Table, opts Options) (*Bank, error) {
	cols, err := locateColumns(table, opts)
	if err != nil {
		return nil, err
	}
	logger := logging.NewComponentLogger(opts.Logger, "bank")

	minWidth := 0
	for _, pos := range opts.ClassificationColumns {
		if pos+1 > minWidth {
			minWidth = pos + 1
		}
	}

	b := newBank()
	for _, row := range table.Rows {
		b.stats.Rows++
		if opts.ShortRows == ShortRowReject && len(row.Cells) < minWidth {
			return nil, fmt.Errorf("%w: row %d has %d cells, need %d", ErrShortRow, row.Number, len(row.Cells), minWidth)
		}

		label := strings.TrimSpace(row.Cell(cols.typ))
		t, ok := opts.Labels[label]
		if !ok {
			b.stats.UnknownTypeRows = append(b.stats.UnknownTypeRows, row.Number)
			logging.WarnWithContext(logger, "bank row dropped", "bank_unknown_type",
				logging.Int("row", row.Number),
				logging.String("type_label", label),
				logging.String(logging.FieldImpact, "question will not appear in the output table"),
				logging.String(logging.FieldErrorHint, "add the label to bank type labels in the config"),
			)
			continue
		}

		q := Question{
			Type:   t,
			Text:   opts.Normalizer.Normalize(row.Cell(cols.question)),
			Answer: strings.TrimSpace(row.Cell(cols.answer)),
			Row:    row.Number,
		}
		if t == TrueFalse && len(opts.TrueFalseOptions) > 0 {
			copy(q.Options[:], opts.TrueFalseOptions)
		} else {
			for i, col := range cols.options {
				if i >= OptionSlots {
					break
				}
				q.Options[i] = strings.TrimSpace(row.Cell(col))
			}
		}
		for i, pos := range opts.ClassificationColumns {
			q.Classification[i] = strings.TrimSpace(row.Cell(pos))
		}

		dup, err := b.add(q, opts.Duplicates)
		if err != nil {
			return nil, err
		}
		if dup {
			logger.Debug("duplicate question text",
				logging.Int("row", row.Number),
				logging.String("type", t.String()),
				logging.String("policy", string(opts.Duplicates)),
			)
		}
	}

	logger.Info("bank loaded",
		logging.Int("rows", b.stats.Rows),
		logging.Int("single", b.stats.PerType[Single]),
		logging.Int("multiple", b.stats.PerType[Multiple]),
		logging.Int("true_false", b.stats.PerType[TrueFalse]),
		logging.Int("dropped", len(b.stats.UnknownTypeRows)),
		logging.Int("duplicates", b.stats.Duplicates),
	)
	return b, nil
}

// LoadFile reads the bank table at path and loads it.
func LoadFile(path, sheet string, opts Options) (*Bank, error) {
	table, err := tabular.Read(path, sheet)
	if err != nil {
		return nil, fmt.Errorf("read bank %s: %w", path, err)
	}
	b, err := Load(table, opts)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", path, err)
	}
	return b, nil
}
