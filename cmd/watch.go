package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"musescore/internal/scoring"
)

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage the list of watched ZIP codes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <zip>...",
		Short: "Add ZIP codes to the watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, zip := range args {
				added, err := a.watchlist().Add(zip)
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(out, "Watching %s\n", zip)
				} else {
					fmt.Fprintf(out, "%s is already watched\n", zip)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <zip>...",
		Aliases: []string{"remove"},
		Short:   "Remove ZIP codes from the watchlist",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, zip := range args {
				removed, err := a.watchlist().Remove(zip)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Removed %s\n", zip)
				} else {
					fmt.Fprintf(out, "%s was not watched\n", zip)
				}
			}
			return nil
		},
	})

	var interactive bool
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List watched ZIP codes, scored for --agi when given",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showWatchlist(cmd, a.agi, interactive)
		},
	}
	ls.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the list and open details")
	cmd.AddCommand(ls)

	return cmd
}

// showWatchlist prints the watched ZIP codes. With a positive agi each one
// is scored live against the current dataset.
func (a *app) showWatchlist(cmd *cobra.Command, agi float64, interactive bool) error {
	out := cmd.OutOrStdout()
	zips, err := a.watchlist().Load()
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}
	if len(zips) == 0 {
		fmt.Fprintln(out, "No ZIP codes watched yet. Use 'muse watch add <zip>' to add one.")
		return nil
	}

	if agi == 0 {
		for _, zip := range zips {
			fmt.Fprintln(out, zip)
		}
		return nil
	}
	if err := a.scorer.ValidateAGI(agi); err != nil {
		return err
	}
	snap, err := a.dataset(cmd.Context())
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(zips))
	for _, zip := range zips {
		area, res, err := a.scorer.Score(snap, zip, agi)
		var line string
		switch {
		case err == nil:
			line = scoreLine(scoring.Scored{Area: area, Result: res})
		case errors.Is(err, scoring.ErrNotFound):
			line = fmt.Sprintf("%-7s | not in the active dataset", zip)
		default:
			line = fmt.Sprintf("%-7s | %v", zip, err)
		}
		lines = append(lines, line)
		fmt.Fprintln(out, line)
	}

	if interactive {
		fmt.Fprintln(out, "Use ↑/↓ and Enter for details, Esc to exit.")
		interactiveSelect(lines, func(i int) {
			if _, err := a.lookupAndRender(cmd, zips[i], agi, true); err != nil {
				fmt.Fprintf(out, "No score for %s: %v\n", zips[i], err)
			}
		})
	}
	return nil
}
