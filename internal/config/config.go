package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input and output locations.
type Paths struct {
	Bank   string `toml:"bank"`
	Output string `toml:"output"`
	LogDir string `toml:"log_dir"`
}

// Bank describes the question bank layout.
type Bank struct {
	Sheet          string   `toml:"sheet"`
	TypeColumn     string   `toml:"type_column"`
	QuestionColumn string   `toml:"question_column"`
	OptionColumns  []string `toml:"option_columns"`
	AnswerColumn   string   `toml:"answer_column"`
	// ClassificationColumns are zero-based column positions for the three
	// classification levels. The bank export names them inconsistently, so
	// they are addressed by position rather than header.
	ClassificationColumns []int    `toml:"classification_columns"`
	SingleLabels          []string `toml:"single_labels"`
	MultipleLabels        []string `toml:"multiple_labels"`
	TrueFalseLabels       []string `toml:"true_false_labels"`
	TrueFalseOptions      []string `toml:"true_false_options"`
	// DuplicatePolicy is one of overwrite, first, reject.
	DuplicatePolicy string `toml:"duplicate_policy"`
	// ShortRowPolicy is one of pad, reject.
	ShortRowPolicy string `toml:"short_row_policy"`
}

// Transcript describes the markers recognized in transcript documents.
type Transcript struct {
	NameMarkers     []string `toml:"name_markers"`
	ScoreMarkers    []string `toml:"score_markers"`
	UnitLabels      []string `toml:"unit_labels"`
	QuestionPattern string   `toml:"question_pattern"`
	FoldWidth       bool     `toml:"fold_width"`
}

// Matching controls approximate question matching.
type Matching struct {
	Threshold float64 `toml:"threshold"`
	// ReversePass is always or fallback.
	ReversePass string `toml:"reverse_pass"`
}

// Output controls how the aggregate table is written.
type Output struct {
	Format    string `toml:"format"`
	Language  string `toml:"language"`
	Overwrite string `toml:"overwrite"`
}

// Workflow contains batch execution settings.
type Workflow struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for examtally.
//
// Configuration sections by subsystem:
//   - Paths: bank source, output destination, log directory
//   - Bank: column names, type labels, duplicate and short-row policies
//   - Transcript: student name, score and question line markers
//   - Matching: similarity threshold and reverse pass mode
//   - Output: format, header language, overwrite policy
//   - Workflow: transcript worker count
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Bank       Bank       `toml:"bank"`
	Transcript Transcript `toml:"transcript"`
	Matching   Matching   `toml:"matching"`
	Output     Output     `toml:"output"`
	Workflow   Workflow   `toml:"workflow"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory when one is configured.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
