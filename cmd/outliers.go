package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"musescore/internal/scoring"
)

func newOutliersCommand(a *app) *cobra.Command {
	var (
		state    string
		minGroup int
		opts     listOptions
	)

	cmd := &cobra.Command{
		Use:   "outliers",
		Short: "Areas scoring more than one standard deviation below their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			scored, err := a.batch(cmd.Context())
			if err != nil {
				return err
			}

			results := scoring.FindOutliers(scored, minGroup)
			if state != "" {
				kept := results[:0]
				for _, o := range results {
					if strings.EqualFold(o.Area.StateID, state) {
						kept = append(kept, o)
					}
				}
				results = kept
			}
			if opts.limit > 0 && len(results) > opts.limit {
				results = results[:opts.limit]
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, results)
			}

			fmt.Fprintf(out, "\nFound %d low outliers for AGI $%.0f (%v)\n", len(results), a.agi, time.Since(start).Truncate(time.Millisecond))
			lines := make([]string, len(results))
			zips := make([]string, len(results))
			for i, o := range results {
				lines[i] = fmt.Sprintf("%s | μ=%.0f σ=%.1f n=%d", scoreLine(o.Scored), o.StateMean, o.StateStdDev, o.StateCount)
				zips[i] = o.Area.Zip
				fmt.Fprintln(out, lines[i])
			}
			if opts.interactive && len(lines) > 0 {
				fmt.Fprintln(out, "Use ↑/↓ and Enter for details, Esc to exit.")
				interactiveSelect(lines, func(i int) {
					if _, err := a.lookupAndRender(cmd, zips[i], a.agi, true); err != nil {
						fmt.Fprintf(out, "No score for %s: %v\n", zips[i], err)
					}
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "only outliers in this state")
	cmd.Flags().IntVar(&minGroup, "min-group", 3, "minimum areas a state needs to be compared")
	opts.register(cmd)
	return cmd
}
