package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"musescore/internal/geo"
)

func newNearbyCommand(a *app) *cobra.Command {
	var (
		miles float64
		opts  listOptions
	)

	cmd := &cobra.Command{
		Use:   "nearby <zip>",
		Short: "Score the areas within a radius of a ZIP code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agi, err := a.requireAGI()
			if err != nil {
				return err
			}
			snap, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}

			zip := strings.TrimSpace(args[0])
			results, err := geo.ScoreNearby(a.scorer, snap, zip, agi, miles)
			if err != nil {
				return err
			}
			if opts.limit > 0 && len(results) > opts.limit {
				results = results[:opts.limit]
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, results)
			}

			fmt.Fprintf(out, "\nFound %d areas within %.1f miles of %s\n", len(results), miles, zip)
			lines := make([]string, len(results))
			for i, r := range results {
				lines[i] = fmt.Sprintf("%s | Dist: %5.1f mi", scoreLine(r.Scored), r.Miles)
				fmt.Fprintln(out, lines[i])
			}
			if opts.interactive && len(lines) > 0 {
				interactiveSelect(lines, func(i int) {
					renderScore(out, results[i].Area, results[i].Result, agi)
				})
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&miles, "miles", 10, "search radius in miles")
	opts.register(cmd)
	return cmd
}
