package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"musescore/internal/scoring"
)

func newScoreCommand(a *app) *cobra.Command {
	var (
		lat, lng float64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "score [zip...]",
		Short: "Score one or more ZIP codes",
		Long: `Score one or more ZIP codes for the --agi income.

With --lat and --lng the ZIP is found from the configured boundary
shapefile. With no arguments, ZIP codes are read interactively and each
result can be added to the watchlist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			agi, err := a.requireAGI()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				b, err := a.boundaries()
				if err != nil {
					return err
				}
				zip, ok := b.Locate(lat, lng)
				if !ok {
					return fmt.Errorf("%w: no ZIP boundary contains %.5f, %.5f", scoring.ErrNotFound, lat, lng)
				}
				fmt.Fprintf(out, "Located ZIP %s\n", zip)
				args = append([]string{zip}, args...)
			}

			if len(args) == 0 {
				return a.scoreLoop(cmd, agi)
			}

			var results []scoring.Scored
			for _, zip := range args {
				s, err := a.lookupAndRender(cmd, zip, agi, !asJSON)
				if err != nil {
					return err
				}
				results = append(results, s)
			}
			if asJSON {
				return writeJSON(out, results)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude to locate a ZIP from")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude to locate a ZIP from")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

// lookupAndRender scores zip and, when render is set, prints the breakdown.
func (a *app) lookupAndRender(cmd *cobra.Command, zip string, agi float64, render bool) (scoring.Scored, error) {
	snap, err := a.dataset(cmd.Context())
	if err != nil {
		return scoring.Scored{}, err
	}
	area, res, err := a.scorer.Score(snap, strings.TrimSpace(zip), agi)
	if err != nil {
		return scoring.Scored{}, err
	}
	if render {
		renderScore(cmd.OutOrStdout(), area, res, agi)
	}
	return scoring.Scored{Area: area, Result: res}, nil
}

// scoreLoop reads ZIP codes until a blank line, offering to watch each one.
func (a *app) scoreLoop(cmd *cobra.Command, agi float64) error {
	if _, err := a.dataset(cmd.Context()); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	for {
		fmt.Fprint(out, "Enter ZIP, 'watch' for the watchlist (blank to quit): ")
		input, err := reader.ReadString('\n')
		zip := strings.TrimSpace(input)
		if zip == "" {
			return nil
		}

		if strings.EqualFold(zip, "watch") {
			if err := a.showWatchlist(cmd, agi, false); err != nil {
				fmt.Fprintf(out, "Failed to load watchlist: %v\n", err)
			}
		} else if _, lookupErr := a.lookupAndRender(cmd, zip, agi, true); lookupErr != nil {
			if !errors.Is(lookupErr, scoring.ErrNotFound) && !errors.Is(lookupErr, scoring.ErrInvalidInput) {
				return lookupErr
			}
			fmt.Fprintf(out, "No score for %s: %v\n", zip, lookupErr)
		} else {
			a.offerWatch(out, reader, zip)
		}

		if err == io.EOF {
			return nil
		}
	}
}

// offerWatch asks whether zip should be added to the watchlist.
func (a *app) offerWatch(out io.Writer, reader *bufio.Reader, zip string) {
	fmt.Fprint(out, "Add to watchlist? (y/N): ")
	resp, _ := reader.ReadString('\n')
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp != "y" && resp != "yes" {
		return
	}
	if added, err := a.watchlist().Add(zip); err != nil {
		fmt.Fprintf(out, "Failed to save: %v\n", err)
	} else if added {
		fmt.Fprintln(out, "Added to watchlist.")
	} else {
		fmt.Fprintln(out, "Already on the watchlist.")
	}
}
