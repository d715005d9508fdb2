package emit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"

	"examtally/internal/aggregate"
	"examtally/internal/config"
	"examtally/internal/logging"
	"examtally/internal/preflight"
)

var (
	// ErrDeclined is returned when an existing destination may not be replaced.
	ErrDeclined = errors.New("overwrite declined")
	// ErrPermission is returned when the destination cannot be written. It
	// also matches fs.ErrPermission.
	ErrPermission = errors.New("output not writable")
)

const lockRetryDelay = 100 * time.Millisecond

// Confirmer decides whether an existing destination may be replaced.
type Confirmer interface {
	Confirm(path string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(path string) (bool, error)

func (f ConfirmFunc) Confirm(path string) (bool, error) { return f(path) }

// TerminalConfirmer prompts on Out and reads a yes/no answer from In. When
// In is not a terminal it declines without prompting.
type TerminalConfirmer struct {
	In       io.Reader
	Out      io.Writer
	Terminal bool
}

// NewTerminalConfirmer inspects in to decide whether prompting is possible.
func NewTerminalConfirmer(in *os.File, out io.Writer) *TerminalConfirmer {
	fd := in.Fd()
	return &TerminalConfirmer{
		In:       in,
		Out:      out,
		Terminal: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (c *TerminalConfirmer) Confirm(path string) (bool, error) {
	if !c.Terminal {
		return false, nil
	}
	fmt.Fprintf(c.Out, "File %q already exists. Replace it? [y/N]: ", path)
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "是":
		return true, nil
	default:
		return false, nil
	}
}

// Options control Write.
type Options struct {
	Format   string
	Language string
	// Overwrite is ask, always, or never.
	Overwrite string
	// Confirmer is consulted under the ask policy; nil declines.
	Confirmer Confirmer
	RunID     string
	Logger    *slog.Logger
}

// OptionsFromConfig maps the output section onto write options.
func OptionsFromConfig(cfg *config.Config, confirmer Confirmer, runID string, logger *slog.Logger) Options {
	return Options{
		Format:    cfg.Output.Format,
		Language:  cfg.Output.Language,
		Overwrite: cfg.Output.Overwrite,
		Confirmer: confirmer,
		RunID:     runID,
		Logger:    logger,
	}
}

// Write renders table to dest. An existing dest is replaced only when the
// overwrite policy allows it; otherwise ErrDeclined is returned and dest is
// left untouched.
func Write(ctx context.Context, table aggregate.Table, dest string, opts Options) error {
	emitter, err := New(opts.Format, LabelsFor(opts.Language), opts.RunID)
	if err != nil {
		return err
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "emit"))

	if err := preflight.WritableTarget(dest); err != nil {
		return permissionError(dest, err)
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return permissionError(dest, err)
	}

	lock := flock.New(dest + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return permissionError(dest, fmt.Errorf("acquire lock: %w", err))
	}
	if !locked {
		return fmt.Errorf("output %s is locked by another process", dest)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
		_ = os.Remove(lock.Path())
	}()

	if _, err := os.Stat(dest); err == nil {
		ok, err := confirmOverwrite(dest, opts)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("output left unchanged", logging.OutputPath(dest))
			return fmt.Errorf("%w: %s", ErrDeclined, dest)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*"+emitter.Extension())
	if err != nil {
		return permissionError(dest, err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := emitter.Emit(ctx, table, tmpPath); err != nil {
		return permissionError(dest, fmt.Errorf("emit %s: %w", opts.Format, err))
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return permissionError(dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return permissionError(dest, err)
	}
	committed = true

	logger.Info("output written",
		logging.OutputPath(dest),
		logging.String("format", opts.Format),
		logging.Int("rows", len(table.Rows)),
		logging.Int("transcripts", len(table.Columns)),
	)
	return nil
}

func confirmOverwrite(dest string, opts Options) (bool, error) {
	switch opts.Overwrite {
	case config.OverwriteAlways:
		return true, nil
	case config.OverwriteNever:
		return false, nil
	default:
		if opts.Confirmer == nil {
			return false, nil
		}
		ok, err := opts.Confirmer.Confirm(dest)
		if err != nil {
			return false, fmt.Errorf("confirm overwrite: %w", err)
		}
		return ok, nil
	}
}

// permissionError tags permission failures with ErrPermission and leaves
// other errors unchanged.
func permissionError(dest string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %w", ErrPermission, dest, err)
	}
	return err
}
