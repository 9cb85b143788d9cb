package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"musescore/internal/scoring"
)

type bandRow struct {
	From  float64  `json:"from"`
	Below *float64 `json:"below"` // nil for the open-ended top band
	Base  int      `json:"base"`
	Name  string   `json:"name"`
}

func bandRows() []bandRow {
	bands := scoring.BaseBands()
	rows := make([]bandRow, len(bands))
	from := 0.0
	for i, b := range bands {
		rows[i] = bandRow{From: from, Base: b.Base, Name: b.Name}
		if !math.IsInf(b.Below, 1) {
			below := b.Below
			rows[i].Below = &below
		}
		from = b.Below
	}
	return rows
}

func newBandsCommand(a *app) *cobra.Command {
	var (
		asJSON bool
		pcpi   float64
	)

	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Show the AGI/PCPI base score table",
		Long: `Show the AGI/PCPI base score table.

With --agi and --pcpi the band that ratio falls in is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := bandRows()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, rows)
			}

			mark := -1
			if a.agi != 0 || pcpi != 0 {
				agi, err := a.requireAGI()
				if err != nil {
					return err
				}
				if pcpi <= 0 {
					return fmt.Errorf("%w: --pcpi must be positive", scoring.ErrInvalidInput)
				}
				_, name := scoring.BaseScore(agi / pcpi)
				for i, r := range rows {
					if r.Name == name {
						mark = i
					}
				}
				fmt.Fprintf(out, "AGI/PCPI ratio %.2f\n", agi/pcpi)
			}

			fmt.Fprintf(out, "\n%-13s | %4s | %s\n", "Ratio", "Base", "Band")
			fmt.Fprintln(out, "--------------------------------------------")
			for i, r := range rows {
				span := fmt.Sprintf("%.1f +", r.From)
				if r.Below != nil {
					span = fmt.Sprintf("%.1f - %.1f", r.From, *r.Below)
				}
				line := fmt.Sprintf("%-13s | %4d | %s", span, r.Base, r.Name)
				if i == mark {
					line = colorGreen + line + colorReset
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "\nFinal score = min(%d, base + adjustment), adjustment 0 to %.0f\n",
				scoring.ScoreCeiling, scoring.DefaultWeights.Sum())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	cmd.Flags().Float64Var(&pcpi, "pcpi", 0, "per-capita income to mark the matching band")
	return cmd
}
