package testsupport

import (
	"path/filepath"
	"testing"

	"examtally/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// Output overwrites without prompting so tests never block on a TTY.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Bank = filepath.Join(base, "bank.xlsx")
	cfgVal.Paths.Output = filepath.Join(base, "out", "analysis.xlsx")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Output.Overwrite = config.OverwriteAlways

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOutput points the output at name inside the base directory and sets
// the format.
func WithOutput(name, format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Output = filepath.Join(b.baseDir, "out", name)
		b.cfg.Output.Format = format
	}
}

// WithOverwrite sets the overwrite policy.
func WithOverwrite(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Overwrite = policy
	}
}

// WithReversePass sets the reverse pass mode.
func WithReversePass(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.ReversePass = mode
	}
}

// WithWorkers sets the transcript worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.Bank)
}
