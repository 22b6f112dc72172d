package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ghostwood/internal/compare"
	"ghostwood/internal/design"
	"ghostwood/internal/history"
)

type compareOutput struct {
	A        string            `json:"a"`
	B        string            `json:"b"`
	Table    []compare.Row     `json:"table"`
	Analysis *compare.Analysis `json:"analysis,omitempty"`
	Error    string            `json:"analysisError,omitempty"`
}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	var analyze bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "compare <id> <id>",
		Short: "Compare two saved designs side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var a, b design.Final
			err := ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				var err error
				if a, err = findDesign(store, args[0]); err != nil {
					return err
				}
				b, err = findDesign(store, args[1])
				return err
			})
			if err != nil {
				return err
			}
			if a.ID == b.ID {
				return errors.New("compare needs two different designs")
			}

			result := compareOutput{A: a.ID, B: b.ID, Table: compare.Table(a, b)}
			if analyze {
				analysis, err := runAnalysis(cmd, ctx, a, b)
				if err != nil {
					result.Error = err.Error()
				} else {
					result.Analysis = &analysis
				}
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			printComparison(cmd, result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Ask the generation provider for a tonal analysis")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runAnalysis(cmd *cobra.Command, ctx *commandContext, a, b design.Final) (compare.Analysis, error) {
	provider, err := ctx.provider(cmd.Context())
	if err != nil {
		return compare.Analysis{}, err
	}
	cfg := ctx.configValue()
	engine := compare.NewEngine(provider, cfg.Brand.Name, nil, ctx.cliLogger())
	return engine.Analyze(cmd.Context(), a, b)
}

func printComparison(cmd *cobra.Command, result compareOutput) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(result.Table))
	for _, row := range result.Table {
		marker := ""
		if row.Differs() {
			marker = "*"
		}
		rows = append(rows, []string{row.Label, row.A, row.B, marker})
	}
	fmt.Fprintln(out, renderTable([]string{"", result.A, result.B, "Diff"}, rows, nil))

	if result.Error != "" {
		fmt.Fprintf(out, "\nAnalysis unavailable: %s\n", result.Error)
		return
	}
	if result.Analysis == nil {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderKeyValues([][2]string{
		{"Tonal difference", result.Analysis.TonalDifference},
		{"Playing experience", result.Analysis.PlayingExperience},
		{"Recommendation", result.Analysis.Recommendation},
	}))
}
