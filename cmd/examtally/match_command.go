package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"examtally/internal/reconcile"
	"examtally/internal/textutil"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var bankFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "match <fragment>...",
		Short: "Resolve a question fragment against the bank",
		Long:  "Arguments are joined with spaces and normalized the same way transcript lines are before matching.",
		Args:  cobra.MinimumNArgs(1),
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

			n := textutil.Normalizer{FoldWidth: cfg.Transcript.FoldWidth}
			fragment := n.Normalize(strings.Join(args, " "))
			if fragment == "" {
				return errors.New("fragment is empty after normalization")
			}

			engine := reconcile.NewEngine(b, reconcile.OptionsFromConfig(cfg, logger))
			view := newMatchView(engine.Resolve(fragment))
			if jsonOut {
				return writeJSON(cmd, view)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(matchHeaders, [][]string{view.row()},
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVar(&bankFlag, "bank", "", "Question bank workbook (overrides paths.bank)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the match as JSON")
	return cmd
}
