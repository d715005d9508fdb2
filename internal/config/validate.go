package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBank(); err != nil {
		return err
	}
	if err := c.validateTranscript(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if c.Workflow.Workers <= 0 {
		return errors.New("workflow.workers must be positive")
	}
	return nil
}

func (c *Config) validateBank() error {
	if strings.TrimSpace(c.Paths.Bank) == "" {
		return errors.New("paths.bank must be set (or export EXAMTALLY_BANK)")
	}
	if c.Bank.TypeColumn == "" {
		return errors.New("bank.type_column must be set")
	}
	if c.Bank.QuestionColumn == "" {
		return errors.New("bank.question_column must be set")
	}
	if c.Bank.AnswerColumn == "" {
		return errors.New("bank.answer_column must be set")
	}
	if n := len(c.Bank.OptionColumns); n == 0 || n > maxOptionColumns {
		return fmt.Errorf("bank.option_columns must list between 1 and %d columns, got %d", maxOptionColumns, n)
	}
	for i, name := range c.Bank.OptionColumns {
		if name == "" {
			return fmt.Errorf("bank.option_columns[%d] must not be empty", i)
		}
	}
	if len(c.Bank.ClassificationColumns) != 3 {
		return fmt.Errorf("bank.classification_columns must list exactly 3 positions, got %d", len(c.Bank.ClassificationColumns))
	}
	for i, pos := range c.Bank.ClassificationColumns {
		if pos < 0 {
			return fmt.Errorf("bank.classification_columns[%d] must not be negative", i)
		}
	}
	if len(c.Bank.SingleLabels) == 0 || len(c.Bank.MultipleLabels) == 0 || len(c.Bank.TrueFalseLabels) == 0 {
		return errors.New("bank.single_labels, bank.multiple_labels and bank.true_false_labels must each include at least one label")
	}
	if err := ensureDistinctLabels(map[string][]string{
		"single_labels":     c.Bank.SingleLabels,
		"multiple_labels":   c.Bank.MultipleLabels,
		"true_false_labels": c.Bank.TrueFalseLabels,
	}); err != nil {
		return err
	}
	if len(c.Bank.TrueFalseOptions) > maxOptionColumns {
		return fmt.Errorf("bank.true_false_options must list at most %d options", maxOptionColumns)
	}
	if err := ensureOneOf("bank.duplicate_policy", c.Bank.DuplicatePolicy, DuplicateOverwrite, DuplicateFirst, DuplicateReject); err != nil {
		return err
	}
	return ensureOneOf("bank.short_row_policy", c.Bank.ShortRowPolicy, ShortRowPad, ShortRowReject)
}

func (c *Config) validateTranscript() error {
	if len(c.Transcript.ScoreMarkers) == 0 {
		return errors.New("transcript.score_markers must include at least one marker")
	}
	pattern, err := regexp.Compile(c.Transcript.QuestionPattern)
	if err != nil {
		return fmt.Errorf("transcript.question_pattern: %w", err)
	}
	if pattern.NumSubexp() < 1 {
		return errors.New("transcript.question_pattern must capture the question text in a group")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.Threshold < 0 || c.Matching.Threshold >= 1 {
		return errors.New("matching.threshold must be in [0, 1)")
	}
	return ensureOneOf("matching.reverse_pass", c.Matching.ReversePass, ReversePassAlways, ReversePassFallback)
}

func (c *Config) validateOutput() error {
	if err := ensureOneOf("output.format", c.Output.Format, FormatXLSX, FormatCSV, FormatSQLite); err != nil {
		return err
	}
	return ensureOneOf("output.overwrite", c.Output.Overwrite, OverwriteAsk, OverwriteAlways, OverwriteNever)
}

func ensureOneOf(field, value string, allowed ...string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

func ensureDistinctLabels(groups map[string][]string) error {
	owner := make(map[string]string)
	for group, labels := range groups {
		for _, label := range labels {
			if prev, ok := owner[label]; ok && prev != group {
				first, second := prev, group
				if second < first {
					first, second = second, first
				}
				return fmt.Errorf("bank type label %q appears in both bank.%s and bank.%s", label, first, second)
			}
			owner[label] = group
		}
	}
	return nil
}
