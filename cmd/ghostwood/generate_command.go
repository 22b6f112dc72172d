package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ghostwood/internal/catalog"
	"ghostwood/internal/design"
	"ghostwood/internal/history"
	"ghostwood/internal/intake"
	"ghostwood/internal/pickup"
	"ghostwood/internal/specgen"
)

type generateOutput struct {
	ID     string        `json:"id,omitempty"`
	Intake intake.Record `json:"intake"`
	Pickup pickup.Spec   `json:"pickup"`
	Saved  bool          `json:"saved"`
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var intakePath string
	var save bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a pickup spec from an intake file",
		Long: "Reads an intake record as JSON (use - for stdin), asks the generation\n" +
			"provider for a spec and prints it. With --save the confirmed design is\n" +
			"added to the history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readIntake(cmd, intakePath)
			if err != nil {
				return err
			}
			provider, err := ctx.provider(cmd.Context())
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			generator := specgen.New(provider, specgen.Options{
				Brand:           cfg.Brand.Name,
				FallbackContext: cfg.Brand.FallbackContext,
				Logger:          ctx.cliLogger(),
			})
			spec, err := generator.Generate(cmd.Context(), rec, "")
			if err != nil {
				return err
			}

			result := generateOutput{Intake: rec, Pickup: spec}
			if save {
				final := design.New(rec, spec)
				err := ctx.withHistory(cmd.Context(), func(store *history.Store) error {
					return store.Save(cmd.Context(), final)
				})
				if err != nil {
					return fmt.Errorf("save design: %w", err)
				}
				result.ID = final.ID
				result.Saved = true
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			if result.Saved {
				fmt.Fprintln(out, renderDesign(design.Final{ID: result.ID, Intake: rec, Pickup: spec}))
				fmt.Fprintf(out, "Saved: %s\n", yesNo(result.Saved))
				return nil
			}
			fmt.Fprintln(out, renderSpec(spec))
			return nil
		},
	}
	cmd.Flags().StringVarP(&intakePath, "intake", "i", "", "Intake JSON file (- for stdin)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the generated design to the history")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("intake")
	return cmd
}

// readIntake decodes an intake file over the form defaults of its category,
// then checks it the way the wizard does before generation.
func readIntake(cmd *cobra.Command, path string) (intake.Record, error) {
	var data []byte
	var err error
	if strings.TrimSpace(path) == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return intake.Record{}, fmt.Errorf("read intake: %w", err)
	}

	var probe struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return intake.Record{}, fmt.Errorf("parse intake: %w", err)
	}
	rec := intake.New()
	if strings.TrimSpace(probe.Category) != "" {
		category, err := catalog.ParseCategory(probe.Category)
		if err != nil {
			return intake.Record{}, err
		}
		rec.SetCategory(category)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return intake.Record{}, fmt.Errorf("parse intake: %w", err)
	}
	if strings.TrimSpace(probe.Category) != "" {
		rec.Category, _ = catalog.ParseCategory(probe.Category)
	}
	rec = rec.Normalized()

	if err := rec.Validate(); err != nil {
		return intake.Record{}, err
	}
	if !rec.Ready() {
		if len(rec.ToneGoals) == 0 {
			return intake.Record{}, errors.New("intake incomplete: choose at least one tone goal")
		}
		return intake.Record{}, errors.New("intake incomplete: describe the playing style")
	}
	return rec, nil
}

func renderSpec(spec pickup.Spec) string {
	pairs := [][2]string{
		{"Pickup", spec.Type},
		{"Magnet", spec.MagnetType},
		{"Wire", spec.WireGauge},
		{"Approach", spec.WindApproach},
		{"Wind", fmt.Sprintf("%s, %s", spec.WindStyle, spec.WindCount)},
		{"Resistance", spec.DCResistance},
		{"Polarity", spec.MagnetPolarity},
		{"Potting", spec.Potting},
	}
	curve := make([]string, 0, len(spec.FrequencyResponse))
	for _, p := range spec.FrequencyResponse {
		curve = append(curve, fmt.Sprintf("%s=%g", p.Freq, p.Value))
	}
	pairs = append(pairs,
		[2]string{"Response", strings.Join(curve, "  ")},
		[2]string{"Luthier note", spec.LuthierNote},
		[2]string{"Reality check", spec.RealityCheck},
	)
	return renderKeyValues(pairs)
}
