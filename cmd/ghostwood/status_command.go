package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ghostwood/internal/generation"
	"ghostwood/internal/history"
	"ghostwood/internal/preflight"
)

type statusOutput struct {
	ConfigPath string             `json:"configPath"`
	Provider   string             `json:"provider"`
	Model      string             `json:"model"`
	Designs    int                `json:"designs"`
	Checks     []preflight.Result `json:"checks"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var skipProvider bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check directories, design history and the generation provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			var checker generation.HealthChecker
			if !skipProvider {
				if provider, err := ctx.provider(cmd.Context()); err == nil {
					if hc, ok := provider.(generation.HealthChecker); ok {
						checker = hc
					}
				}
			}
			results := preflight.Run(cmd.Context(), cfg, checker)
			if skipProvider {
				results = results[:len(results)-1]
			}

			llm := cfg.GetLLM()
			status := statusOutput{
				ConfigPath: ctx.configPath,
				Provider:   llm.Provider,
				Model:      llm.Model,
				Checks:     results,
			}
			_ = ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				status.Designs = store.Len()
				return nil
			})

			if jsonOutput {
				if err := writeJSON(cmd, status); err != nil {
					return err
				}
			} else {
				printStatus(cmd, status)
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New(strconv.Itoa(len(failed)) + " check(s) failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&skipProvider, "offline", false, "Skip the provider health call")
	return cmd
}

func printStatus(cmd *cobra.Command, status statusOutput) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Ghostwood", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Config", statusInfo, status.ConfigPath, colorize))
	fmt.Fprintln(out, renderStatusLine("Provider", statusInfo, status.Provider+" ("+status.Model+")", colorize))
	fmt.Fprintln(out, renderStatusLine("Saved designs", statusInfo, strconv.Itoa(status.Designs), colorize))
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Checks", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, r := range status.Checks {
		fmt.Fprintln(out, renderCheckLine(r, colorize))
	}
}
