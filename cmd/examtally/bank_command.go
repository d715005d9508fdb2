package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"examtally/internal/bank"
	"examtally/internal/emit"
)

type bankSummary struct {
	Path            string         `json:"path"`
	Rows            int            `json:"rows"`
	Loaded          int            `json:"loaded"`
	PerType         map[string]int `json:"per_type"`
	Duplicates      int            `json:"duplicates"`
	EmptyText       int            `json:"empty_text"`
	UnknownTypeRows []int          `json:"unknown_type_rows,omitempty"`
}

func newBankCommand(ctx *commandContext) *cobra.Command {
	var bankFlag string
	var list bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Load the question bank and summarise it",
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
			b, err := loadBank(cfg, path, logger)
			if err != nil {
				return err
			}

			stats := b.Stats()
			summary := bankSummary{
				Path:            path,
				Rows:            stats.Rows,
				Loaded:          stats.Loaded,
				PerType:         make(map[string]int, len(bank.Types)),
				Duplicates:      stats.Duplicates,
				EmptyText:       stats.EmptyText,
				UnknownTypeRows: stats.UnknownTypeRows,
			}
			for _, t := range bank.Types {
				summary.PerType[t.String()] = b.Len(t)
			}
			if jsonOut {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			labels := emit.LabelsFor(cfg.Output.Language)
			fmt.Fprintf(out, "Bank: %s\n", path)
			rows := make([][]string, 0, len(bank.Types))
			for _, t := range bank.Types {
				rows = append(rows, []string{labels.TypeName(t), strconv.Itoa(b.Len(t))})
			}
			fmt.Fprintln(out, renderTable([]string{"Type", "Questions"}, rows, []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(out, "Rows read: %d, loaded: %d, duplicates: %d, empty text: %d\n",
				stats.Rows, stats.Loaded, stats.Duplicates, stats.EmptyText)
			if len(stats.UnknownTypeRows) > 0 {
				fmt.Fprintf(out, "Dropped rows with unknown type: %v\n", stats.UnknownTypeRows)
			}

			if list {
				var qrows [][]string
				for _, t := range bank.Types {
					for _, q := range b.Questions(t) {
						qrows = append(qrows, []string{labels.TypeName(t), strconv.Itoa(q.Index), q.Text, q.Answer})
					}
				}
				fmt.Fprintln(out, renderTable([]string{"Type", "#", "Question", "Answer"}, qrows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bankFlag, "bank", "", "Question bank workbook (overrides paths.bank)")
	cmd.Flags().BoolVar(&list, "list", false, "List every loaded question")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the summary as JSON")
	return cmd
}
