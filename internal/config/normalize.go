package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBank()
	c.normalizeTranscript()
	c.normalizeMatching()
	c.normalizeOutput()
	c.normalizeLogging()
	if c.Workflow.Workers <= 0 {
		c.Workflow.Workers = defaultWorkers
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Bank) == "" {
		if value, ok := os.LookupEnv("EXAMTALLY_BANK"); ok {
			c.Paths.Bank = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.Bank) == "" {
		c.Paths.Bank = defaultBankPath
	}
	if c.Paths.Bank, err = expandPath(strings.TrimSpace(c.Paths.Bank)); err != nil {
		return fmt.Errorf("paths.bank: %w", err)
	}
	if strings.TrimSpace(c.Paths.Output) == "" {
		c.Paths.Output = defaultOutputPath
	}
	if c.Paths.Output, err = expandPath(strings.TrimSpace(c.Paths.Output)); err != nil {
		return fmt.Errorf("paths.output: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBank() {
	c.Bank.Sheet = strings.TrimSpace(c.Bank.Sheet)
	c.Bank.TypeColumn = strings.TrimSpace(c.Bank.TypeColumn)
	c.Bank.QuestionColumn = strings.TrimSpace(c.Bank.QuestionColumn)
	c.Bank.AnswerColumn = strings.TrimSpace(c.Bank.AnswerColumn)
	c.Bank.OptionColumns = trimAll(c.Bank.OptionColumns)
	c.Bank.SingleLabels = dedupe(c.Bank.SingleLabels)
	c.Bank.MultipleLabels = dedupe(c.Bank.MultipleLabels)
	c.Bank.TrueFalseLabels = dedupe(c.Bank.TrueFalseLabels)
	c.Bank.DuplicatePolicy = strings.ToLower(strings.TrimSpace(c.Bank.DuplicatePolicy))
	if c.Bank.DuplicatePolicy == "" {
		c.Bank.DuplicatePolicy = defaultDuplicatePolicy
	}
	c.Bank.ShortRowPolicy = strings.ToLower(strings.TrimSpace(c.Bank.ShortRowPolicy))
	if c.Bank.ShortRowPolicy == "" {
		c.Bank.ShortRowPolicy = defaultShortRowPolicy
	}
}

func (c *Config) normalizeTranscript() {
	// Markers are matched literally, so only empty entries are removed.
	c.Transcript.NameMarkers = dropEmpty(c.Transcript.NameMarkers)
	c.Transcript.ScoreMarkers = dropEmpty(c.Transcript.ScoreMarkers)
	c.Transcript.UnitLabels = dedupe(c.Transcript.UnitLabels)
	c.Transcript.QuestionPattern = strings.TrimSpace(c.Transcript.QuestionPattern)
	if c.Transcript.QuestionPattern == "" {
		c.Transcript.QuestionPattern = defaultQuestionPattern
	}
}

func (c *Config) normalizeMatching() {
	c.Matching.ReversePass = strings.ToLower(strings.TrimSpace(c.Matching.ReversePass))
	if c.Matching.ReversePass == "" {
		c.Matching.ReversePass = defaultReversePass
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	c.Output.Language = strings.TrimSpace(c.Output.Language)
	if c.Output.Language == "" {
		c.Output.Language = defaultOutputLanguage
	}
	c.Output.Overwrite = strings.ToLower(strings.TrimSpace(c.Output.Overwrite))
	if c.Output.Overwrite == "" {
		c.Output.Overwrite = defaultOverwrite
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func dropEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
