package emit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"examtally/internal/aggregate"
	"examtally/internal/config"
)

// ErrUnsupportedFormat is returned by New for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Emitter writes a table to a file path.
type Emitter interface {
	Emit(ctx context.Context, table aggregate.Table, path string) error
	// Extension is the file suffix the emitter produces, including the dot.
	Extension() string
}

// New returns the emitter for format. runID tags sqlite output.
func New(format string, labels Labels, runID string) (Emitter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case config.FormatXLSX:
		return &XLSX{Labels: labels}, nil
	case config.FormatCSV:
		return &CSV{Labels: labels}, nil
	case config.FormatSQLite:
		return &SQLite{Labels: labels, RunID: runID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
