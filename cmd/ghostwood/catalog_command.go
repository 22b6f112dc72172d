package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ghostwood/internal/catalog"
	"ghostwood/internal/wizard"
)

func newCatalogCommand() *cobra.Command {
	var category string
	var list string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "catalog",
		Short:       "Show the intake option lists",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			lists := catalog.All()
			if strings.TrimSpace(category) != "" {
				c, err := catalog.ParseCategory(category)
				if err != nil {
					return err
				}
				lists = catalog.ForCategory(c)
			}
			if name := strings.TrimSpace(list); name != "" {
				var filtered []catalog.List
				for _, l := range lists {
					if l.Name == name {
						filtered = append(filtered, l)
					}
				}
				if len(filtered) == 0 {
					return fmt.Errorf("unknown catalog list %q", name)
				}
				lists = filtered
			}
			if jsonOutput {
				return writeJSON(cmd, lists)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for i, l := range lists {
				if i > 0 {
					fmt.Fprintln(out)
				}
				for _, line := range renderSectionHeader(l.Name, colorize) {
					fmt.Fprintln(out, line)
				}
				for _, label := range l.Labels() {
					fmt.Fprintf(out, "  %s\n", label)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Filter to one instrument (guitar, bass, rhodes)")
	cmd.Flags().StringVar(&list, "list", "", "Show a single list by name, e.g. tone_goals")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newOfferingsCommand())
	cmd.AddCommand(newManifestCommand())
	return cmd
}

func newOfferingsCommand() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "offerings",
		Short: "Show the workshop service lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				return writeJSON(cmd, catalog.Offerings)
			}
			rows := make([][]string, 0, len(catalog.Offerings))
			for _, o := range catalog.Offerings {
				rows = append(rows, []string{o.Name, o.Price, o.Unit, strings.Join(o.Items, "\n")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Service", "Price", "Unit", "Includes"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newManifestCommand() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Show the workshop price manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest := catalog.WorkshopManifest()
			if jsonOutput {
				return writeJSON(cmd, manifest)
			}
			out := cmd.OutOrStdout()
			tiers := make([][]string, 0, len(manifest.Tiers))
			for _, t := range manifest.Tiers {
				price := "See volume table"
				if !t.ByVolume() {
					price = wizard.FormatPrice(t.PriceCents, "USD")
				}
				tiers = append(tiers, []string{t.Name, strings.Join(t.Types, ", "), price, t.Unit})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tier", "Types", "Price", "Unit"},
				tiers,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))

			volume := make([][]string, 0, len(manifest.Volume))
			for _, v := range manifest.Volume {
				volume = append(volume, []string{
					v.Pack,
					strconv.Itoa(v.Coils),
					wizard.FormatPrice(v.TotalCents, "USD"),
					wizard.FormatPrice(v.PerCoilCents, "USD"),
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Rhodes Pack", "Coils", "Total", "Per Coil"},
				volume,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
