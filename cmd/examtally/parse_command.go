package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"examtally/internal/config"
	"examtally/internal/logging"
)

type parseOutput struct {
	Source        string      `json:"source"`
	Student       string      `json:"student"`
	Total         float64     `json:"total"`
	IgnoredScores int         `json:"ignored_scores"`
	Matches       []matchView `json:"matches"`
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	var bankFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "parse <transcript>",
		Short: "Parse one transcript and show where each score lands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			path, err := resolveBankPath(cfg, bankFlag)
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve transcript path: %w", err)
			}
			b, err := loadBank(cfg, path, logger)
			if err != nil {
				return err
			}
			parser, _, err := newParser(cfg, b, logger)
			if err != nil {
				return err
			}

			result, err := parser.ParseFile(logging.WithTranscript(cmd.Context(), source), source)
			if err != nil {
				return err
			}

			output := parseOutput{
				Source:        result.Source,
				Student:       result.StudentName,
				Total:         result.TotalScore,
				IgnoredScores: result.IgnoredScores,
				Matches:       make([]matchView, 0, len(result.Matches)),
			}
			for _, m := range result.Matches {
				view := newMatchView(m)
				if m.Matched() {
					if score := result.Scores.Get(m.Ref); score.Set {
						v := score.Value
						view.Score = &v
					}
				}
				output.Matches = append(output.Matches, view)
			}
			if jsonOut {
				return writeJSON(cmd, output)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcript: %s\n", output.Source)
			fmt.Fprintf(out, "Student: %s\n", output.Student)
			fmt.Fprintf(out, "Total: %s\n", formatScore(output.Total))
			if output.IgnoredScores > 0 {
				fmt.Fprintf(out, "Scores without a question: %d\n", output.IgnoredScores)
			}
			rows := make([][]string, 0, len(output.Matches))
			for _, v := range output.Matches {
				score := ""
				if v.Score != nil {
					score = formatScore(*v.Score)
				}
				rows = append(rows, append(v.row(), score))
			}
			headers := append(append([]string(nil), matchHeaders...), "Score")
			fmt.Fprintln(out, renderTable(headers, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVar(&bankFlag, "bank", "", "Question bank workbook (overrides paths.bank)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the parse as JSON")
	return cmd
}
