package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"musescore/internal/scoring"
)

// listOptions are the output flags shared by the list commands.
type listOptions struct {
	asJSON      bool
	interactive bool
	limit       int
}

func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVarP(&o.interactive, "interactive", "i", false, "browse results and open details")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "show at most this many results (0 = all)")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printScored prints a scored list, optionally as JSON or as a browsable list.
func (a *app) printScored(cmd *cobra.Command, title string, scored []scoring.Scored, o listOptions) error {
	if o.limit > 0 && len(scored) > o.limit {
		scored = scored[:o.limit]
	}
	out := cmd.OutOrStdout()
	if o.asJSON {
		return writeJSON(out, scored)
	}

	fmt.Fprintln(out, title)
	lines := scoreLines(scored)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	if o.interactive && len(lines) > 0 {
		zips := zipsOf(scored)
		interactiveSelect(lines, func(i int) {
			if _, err := a.lookupAndRender(cmd, zips[i], a.agi, true); err != nil {
				fmt.Fprintf(out, "No score for %s: %v\n", zips[i], err)
			}
		})
	}
	return nil
}

func newScoresCommand(a *app) *cobra.Command {
	var (
		state  string
		sortBy string
		opts   listOptions
	)

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Score every area in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			scored, err := a.batch(cmd.Context())
			if err != nil {
				return err
			}

			if state != "" {
				filtered := scored[:0]
				for _, s := range scored {
					if strings.EqualFold(s.Area.StateID, state) {
						filtered = append(filtered, s)
					}
				}
				scored = filtered
			}

			switch sortBy {
			case "", "dataset":
			case "score":
				sort.SliceStable(scored, func(i, j int) bool {
					return scored[i].Result.FinalScore > scored[j].Result.FinalScore
				})
			case "zip":
				sort.SliceStable(scored, func(i, j int) bool { return scored[i].Area.Zip < scored[j].Area.Zip })
			default:
				return fmt.Errorf("%w: unknown --sort %q", scoring.ErrInvalidInput, sortBy)
			}

			title := fmt.Sprintf("\nScored %d areas for AGI $%.0f (%v)", len(scored), a.agi, time.Since(start).Truncate(time.Millisecond))
			return a.printScored(cmd, title, scored, opts)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "only areas in this state")
	cmd.Flags().StringVar(&sortBy, "sort", "", "order: dataset, score or zip")
	opts.register(cmd)
	return cmd
}

func newFilterCommand(a *app) *cobra.Command {
	var (
		label string
		opts  listOptions
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List areas whose score carries a given label",
		Long: fmt.Sprintf(`List areas whose Muse Score label equals --label.

Labels: %s`, strings.Join(scoring.Labels, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(label) == "" {
				return fmt.Errorf("%w: --label is required", scoring.ErrInvalidInput)
			}
			scored, err := a.batch(cmd.Context())
			if err != nil {
				return err
			}
			matched := scoring.FilterByLabel(scored, label)
			title := fmt.Sprintf("\nFound %d '%s' areas for AGI $%.0f", len(matched), label, a.agi)
			return a.printScored(cmd, title, matched, opts)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "label to match, case-insensitive")
	opts.register(cmd)
	return cmd
}
