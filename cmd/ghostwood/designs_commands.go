package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ghostwood/internal/design"
	"ghostwood/internal/history"
)

func newDesignsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "designs",
		Aliases: []string{"history"},
		Short:   "Inspect saved designs",
	}
	cmd.AddCommand(newDesignsListCommand(ctx))
	cmd.AddCommand(newDesignsShowCommand(ctx))
	cmd.AddCommand(newDesignsDeleteCommand(ctx))
	cmd.AddCommand(newDesignsClearCommand(ctx))
	return cmd
}

func newDesignsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved designs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				designs := store.List()
				if jsonOutput {
					return writeJSON(cmd, designs)
				}
				out := cmd.OutOrStdout()
				if len(designs) == 0 {
					fmt.Fprintln(out, "No saved designs")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Saved", "Category", "Pickup", "Magnet", "Resistance"},
					designRows(designs),
					nil,
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func designRows(designs []design.Final) [][]string {
	rows := make([][]string, 0, len(designs))
	for _, d := range designs {
		rows = append(rows, []string{
			d.ID,
			d.CreatedAt().Local().Format(time.DateTime),
			string(d.Intake.EffectiveCategory()),
			d.Pickup.Type,
			d.Pickup.MagnetType,
			d.Pickup.DCResistance,
		})
	}
	return rows
}

func newDesignsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the master plan for a saved design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				d, err := findDesign(store, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, d)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderDesign(d))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func findDesign(store *history.Store, id string) (design.Final, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	d, err := store.Find(id)
	if errors.Is(err, history.ErrNotFound) {
		return design.Final{}, fmt.Errorf("design %s not found", id)
	}
	return d, err
}

func renderDesign(d design.Final) string {
	rec := d.Intake
	spec := d.Pickup
	pairs := [][2]string{
		{"Design", d.ID},
		{"Saved", d.CreatedAt().Local().Format(time.DateTime)},
		{"Category", string(rec.EffectiveCategory())},
	}
	if rec.IsRhodes() {
		pairs = append(pairs,
			[2]string{"Piano year", rec.PianoYear},
			[2]string{"Pack size", rec.PackSize},
		)
	} else {
		pairs = append(pairs,
			[2]string{"Instrument", strings.TrimSpace(rec.GuitarBrand + " " + rec.GuitarModel)},
			[2]string{"Style", rec.Style},
		)
	}
	pairs = append(pairs,
		[2]string{"Tone goals", strings.Join(rec.ToneGoals, ", ")},
		[2]string{"Pickup", spec.Type},
		[2]string{"Magnet", spec.MagnetType},
		[2]string{"Wire", spec.WireGauge},
		[2]string{"Wind", fmt.Sprintf("%s, %s", spec.WindStyle, spec.WindCount)},
		[2]string{"Resistance", spec.DCResistance},
		[2]string{"Polarity", spec.MagnetPolarity},
		[2]string{"Potting", spec.Potting},
		[2]string{"Luthier note", spec.LuthierNote},
		[2]string{"Reality check", spec.RealityCheck},
	)
	return renderKeyValues(pairs)
}

func newDesignsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				d, err := findDesign(store, args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), d.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted design %s\n", d.ID)
				return nil
			})
		},
	}
}

func newDesignsClearCommand(ctx *commandContext) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved design",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to clear history without --yes")
			}
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				count := store.Len()
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d design(s)\n", count)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm clearing the history")
	return cmd
}
