package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"musescore/internal/chart"
	"musescore/internal/scoring"
)

func newRegionsCommand(a *app) *cobra.Command {
	var (
		asJSON   bool
		selected string
	)

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Average score per state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scored, err := a.batch(cmd.Context())
			if err != nil {
				return err
			}
			summaries := scoring.Summarize(scored)
			out := cmd.OutOrStdout()

			if asJSON {
				return writeJSON(out, map[string]any{
					"summaries": summaries,
					"means":     scoring.AggregateByRegion(scored),
				})
			}

			states := make([]string, len(summaries))
			for i, s := range summaries {
				states[i] = s.State
			}
			tags := scoring.Highlight(states, strings.ToUpper(selected))

			fmt.Fprintf(out, "\n%-6s | %6s | %7s | %4s | %4s\n", "State", "Areas", "Mean", "Min", "Max")
			fmt.Fprintln(out, strings.Repeat("-", 40))
			for _, s := range summaries {
				line := fmt.Sprintf("%-6s | %6d | %7.1f | %4d | %4d", s.State, s.Count, s.Mean, s.Min, s.Max)
				if tags[s.State] == scoring.TagSelected {
					line = colorGreen + line + colorReset
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print summaries as JSON")
	cmd.Flags().StringVar(&selected, "selected", "", "state to highlight")
	return cmd
}

func newChartCommand(a *app) *cobra.Command {
	var (
		outPath  string
		selected string
		labels   bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a bar chart of the average score per state",
		Long: `Render a bar chart of the average score per state.

The format follows the --out extension: .png, .svg or .pdf.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scored, err := a.batch(cmd.Context())
			if err != nil {
				return err
			}
			p, err := chart.RegionBars(scoring.Summarize(scored), chart.Options{
				Title:    fmt.Sprintf("Average Muse Score by State (AGI $%.0f)", a.agi),
				Selected: strings.ToUpper(selected),
				Labels:   labels,
			})
			if err != nil {
				return err
			}
			if err := chart.Save(p, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "regions.png", "output file")
	cmd.Flags().StringVar(&selected, "selected", "", "state to highlight")
	cmd.Flags().BoolVar(&labels, "labels", false, "print the mean above each bar")
	return cmd
}
