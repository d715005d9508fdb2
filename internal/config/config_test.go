package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"examtally/internal/config"
)

func TestLoadDefaultConfigUsesEnvBankAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("EXAMTALLY_BANK", "~/banks/bank.xlsx")
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "banks", "bank.xlsx"); cfg.Paths.Bank != want {
		t.Fatalf("unexpected bank path: got %q want %q", cfg.Paths.Bank, want)
	}
	if !filepath.IsAbs(cfg.Paths.Output) {
		t.Fatalf("expected absolute output path, got %q", cfg.Paths.Output)
	}
	if filepath.Base(cfg.Paths.Output) != "提取后的试卷分析.xlsx" {
		t.Fatalf("unexpected default output name: %q", cfg.Paths.Output)
	}
	if cfg.Matching.Threshold != 0.5 {
		t.Fatalf("unexpected threshold: %v", cfg.Matching.Threshold)
	}
	if cfg.Matching.ReversePass != config.ReversePassAlways {
		t.Fatalf("unexpected reverse pass: %q", cfg.Matching.ReversePass)
	}
	if cfg.Bank.DuplicatePolicy != config.DuplicateOverwrite {
		t.Fatalf("unexpected duplicate policy: %q", cfg.Bank.DuplicatePolicy)
	}
	if cfg.Bank.ShortRowPolicy != config.ShortRowPad {
		t.Fatalf("unexpected short row policy: %q", cfg.Bank.ShortRowPolicy)
	}
	if got := cfg.Bank.ClassificationColumns; len(got) != 3 || got[0] != 14 || got[2] != 16 {
		t.Fatalf("unexpected classification columns: %v", got)
	}
	if cfg.Output.Format != config.FormatXLSX || cfg.Output.Overwrite != config.OverwriteAsk {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Workflow.Workers != 1 {
		t.Fatalf("unexpected workers: %d", cfg.Workflow.Workers)
	}
}

func TestLoadFallsBackToDefaultBankName(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EXAMTALLY_BANK", "")
	os.Unsetenv("EXAMTALLY_BANK")
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if filepath.Base(cfg.Paths.Bank) != "数据源表格.xlsx" {
		t.Fatalf("unexpected default bank: %q", cfg.Paths.Bank)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "examtally.toml")

	type payload struct {
		Paths struct {
			Bank   string `toml:"bank"`
			Output string `toml:"output"`
		} `toml:"paths"`
		Bank struct {
			DuplicatePolicy string `toml:"duplicate_policy"`
		} `toml:"bank"`
		Matching struct {
			Threshold   float64 `toml:"threshold"`
			ReversePass string  `toml:"reverse_pass"`
		} `toml:"matching"`
		Output struct {
			Format string `toml:"format"`
		} `toml:"output"`
		Workflow struct {
			Workers int `toml:"workers"`
		} `toml:"workflow"`
	}
	custom := payload{}
	custom.Paths.Bank = filepath.Join(tempDir, "bank.csv")
	custom.Paths.Output = filepath.Join(tempDir, "out.db")
	custom.Bank.DuplicatePolicy = " First "
	custom.Matching.Threshold = 0.6
	custom.Matching.ReversePass = "FALLBACK"
	custom.Output.Format = "sqlite"
	custom.Workflow.Workers = 4

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.Bank != custom.Paths.Bank {
		t.Fatalf("unexpected bank: %q", cfg.Paths.Bank)
	}
	if cfg.Bank.DuplicatePolicy != config.DuplicateFirst {
		t.Fatalf("expected normalized duplicate policy, got %q", cfg.Bank.DuplicatePolicy)
	}
	if cfg.Matching.Threshold != 0.6 || cfg.Matching.ReversePass != config.ReversePassFallback {
		t.Fatalf("unexpected matching config: %+v", cfg.Matching)
	}
	if cfg.Output.Format != config.FormatSQLite {
		t.Fatalf("unexpected output format: %q", cfg.Output.Format)
	}
	if cfg.Workflow.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Workflow.Workers)
	}
	// Unset sections keep their defaults.
	if cfg.Bank.TypeColumn != "题型" {
		t.Fatalf("expected default type column, got %q", cfg.Bank.TypeColumn)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "examtally.toml")
	if err := os.WriteFile(configPath, []byte("[matching]\nthreshhold = 0.7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"threshold too high", func(c *config.Config) { c.Matching.Threshold = 1 }, "matching.threshold"},
		{"negative threshold", func(c *config.Config) { c.Matching.Threshold = -0.1 }, "matching.threshold"},
		{"reverse pass", func(c *config.Config) { c.Matching.ReversePass = "sometimes" }, "matching.reverse_pass"},
		{"duplicate policy", func(c *config.Config) { c.Bank.DuplicatePolicy = "merge" }, "bank.duplicate_policy"},
		{"short row policy", func(c *config.Config) { c.Bank.ShortRowPolicy = "truncate" }, "bank.short_row_policy"},
		{"format", func(c *config.Config) { c.Output.Format = "ods" }, "output.format"},
		{"overwrite", func(c *config.Config) { c.Output.Overwrite = "maybe" }, "output.overwrite"},
		{"too many options", func(c *config.Config) {
			c.Bank.OptionColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
		}, "bank.option_columns"},
		{"classification count", func(c *config.Config) { c.Bank.ClassificationColumns = []int{1, 2} }, "bank.classification_columns"},
		{"shared label", func(c *config.Config) { c.Bank.MultipleLabels = []string{"单选题"} }, "appears in both"},
		{"pattern without group", func(c *config.Config) { c.Transcript.QuestionPattern = `^\d+\.` }, "transcript.question_pattern"},
		{"bad pattern", func(c *config.Config) { c.Transcript.QuestionPattern = `(` }, "transcript.question_pattern"},
		{"no score markers", func(c *config.Config) { c.Transcript.ScoreMarkers = nil }, "transcript.score_markers"},
		{"workers", func(c *config.Config) { c.Workflow.Workers = 0 }, "workflow.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.Bank = "/tmp/bank.xlsx"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	def := config.Default()
	if cfg.Transcript.QuestionPattern != def.Transcript.QuestionPattern {
		t.Fatalf("sample question pattern %q differs from default %q", cfg.Transcript.QuestionPattern, def.Transcript.QuestionPattern)
	}
	if len(cfg.Transcript.ScoreMarkers) != len(def.Transcript.ScoreMarkers) {
		t.Fatalf("sample score markers %v differ from defaults %v", cfg.Transcript.ScoreMarkers, def.Transcript.ScoreMarkers)
	}
}

func TestEnsureDirectoriesCreatesLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}
