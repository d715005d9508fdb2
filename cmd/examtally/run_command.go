package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"examtally/internal/config"
	"examtally/internal/emit"
	"examtally/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		bankFlag      string
		outputFlag    string
		formatFlag    string
		overwriteFlag string
		workers       int
		preview       bool
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "run <transcript|directory>...",
		Short: "Reconcile transcripts against the bank and write the score table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			cfg := *base
			if cfg.Paths.Bank, err = resolveBankPath(&cfg, bankFlag); err != nil {
				return err
			}
			if v := strings.TrimSpace(formatFlag); v != "" {
				cfg.Output.Format = strings.ToLower(v)
				if strings.TrimSpace(outputFlag) == "" {
					cfg.Paths.Output, err = outputForFormat(cfg.Paths.Output, cfg.Output.Format)
					if err != nil {
						return err
					}
				}
			}
			if v := strings.TrimSpace(outputFlag); v != "" {
				if cfg.Paths.Output, err = config.ExpandPath(v); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}
			if v := strings.TrimSpace(overwriteFlag); v != "" {
				cfg.Output.Overwrite = strings.ToLower(v)
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workflow.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var previewOut io.Writer
			if preview || dryRun {
				previewOut = cmd.OutOrStdout()
			}

			runner := workflow.NewRunner(&cfg, logger,
				workflow.WithConfirmer(emit.NewTerminalConfirmer(os.Stdin, cmd.ErrOrStderr())),
			)
			report, runErr := runner.Run(cmd.Context(), workflow.Request{
				Transcripts: args,
				Preview:     previewOut,
				SkipWrite:   dryRun,
			})
			if report != nil {
				printRunSummary(cmd.OutOrStdout(), report)
			}
			if errors.Is(runErr, emit.ErrDeclined) {
				return fmt.Errorf("%w (use --overwrite always to replace it)", runErr)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&bankFlag, "bank", "", "Question bank workbook (overrides paths.bank)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (overrides paths.output)")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: xlsx, csv, or sqlite")
	cmd.Flags().StringVar(&overwriteFlag, "overwrite", "", "Existing output policy: ask, always, or never")
	cmd.Flags().IntVar(&workers, "workers", 1, "Transcripts parsed concurrently")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print the score table before writing it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the score table without writing output")
	return cmd
}

// outputForFormat swaps the extension of path to match format.
func outputForFormat(path, format string) (string, error) {
	em, err := emit.New(format, emit.LabelsFor(), "")
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + em.Extension(), nil
}

func printRunSummary(out io.Writer, report *workflow.Report) {
	dropped := len(report.Bank.UnknownTypeRows)
	fmt.Fprintf(out, "Bank: %s (%d questions", report.BankPath, report.Bank.Loaded)
	if dropped > 0 {
		fmt.Fprintf(out, ", %d rows dropped", dropped)
	}
	fmt.Fprintln(out, ")")

	if len(report.Outcomes) > 0 {
		rows := make([][]string, 0, len(report.Outcomes))
		for _, o := range report.Outcomes {
			name := filepath.Base(o.Source)
			switch {
			case o.Err != nil:
				rows = append(rows, []string{name, "", "", "", "", "failed: " + o.Err.Error()})
			case o.Result == nil:
				rows = append(rows, []string{name, "", "", "", "", "skipped"})
			default:
				r := o.Result
				rows = append(rows, []string{
					name,
					r.StudentName,
					formatScore(r.TotalScore),
					fmt.Sprintf("%d", len(r.Matches)-len(r.Unmatched)),
					fmt.Sprintf("%d", len(r.Unmatched)),
					"ok",
				})
			}
		}
		headers := []string{"Transcript", "Student", "Total", "Matched", "Unmatched", "Status"}
		aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
	}

	m := report.Matches
	fmt.Fprintf(out, "Matches: %d exact, %d forward, %d reverse, %d unmatched\n", m.Exact, m.Forward, m.Reverse, m.None)
	if report.Written {
		fmt.Fprintf(out, "Wrote %s\n", report.Output)
	}
}
