// Package report renders analysis output tables as aligned text. The
// analytical core only produces numeric tables; this is the thin display
// layer on top.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/harpastum/internal/app"
)

// Display rounding for probability tables. Full precision stays inside
// the matrices; rounding happens only here.
const probabilityDecimals = 4

// Render writes every output table of a report to w.
func Render(w io.Writer, rep *app.Report) error {
	fmt.Fprintf(w, "Possession analysis: %s (period %d, minutes 0-%d, validated at minute %d)\n\n",
		rep.Team, rep.Window.Period, rep.Window.CutoffMinute, rep.ValidationWindow.CutoffMinute)

	if err := renderTPM(w, rep); err != nil {
		return err
	}
	if err := renderDistributions(w, rep); err != nil {
		return err
	}
	if err := renderRanking(w, rep); err != nil {
		return err
	}
	if err := renderMonteCarlo(w, rep); err != nil {
		return err
	}
	return renderComparisons(w, rep)
}

func renderTPM(w io.Writer, rep *app.Report) error {
	fmt.Fprintln(w, "Transition probability matrix (row = passer, column = recipient):")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "\t")
	for _, id := range rep.Roster.IDs() {
		fmt.Fprintf(tw, "%s\t", rep.Nicknames[id])
	}
	fmt.Fprintln(tw)

	rounded := rep.TPM.Rounded(probabilityDecimals)
	for i, id := range rep.Roster.IDs() {
		fmt.Fprintf(tw, "%s\t", rep.Nicknames[id])
		for j := range rounded[i] {
			fmt.Fprintf(tw, "%.*f\t", probabilityDecimals, rounded[i][j])
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func renderDistributions(w io.Writer, rep *app.Report) error {
	fmt.Fprintf(w, "Reception distributions (initial, %d-step projection, empirical at minute %d):\n",
		rep.NSteps, rep.ValidationWindow.CutoffMinute)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "player\tinitial\t%d-step\tempirical\n", rep.NSteps)
	for i, id := range rep.Roster.IDs() {
		fmt.Fprintf(tw, "%s\t%.*f\t%.*f\t%.*f\n",
			rep.Nicknames[id],
			probabilityDecimals, rep.Initial.Probs[i],
			probabilityDecimals, rep.Projected.Probs[i],
			probabilityDecimals, rep.Empirical.Probs[i],
		)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func renderRanking(w io.Writer, rep *app.Report) error {
	fmt.Fprintln(w, "Steady-state possession ranking:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "rank\tplayer\tprobability")
	for _, e := range rep.Ranking {
		fmt.Fprintf(tw, "%d\t%s\t%.*f\n", e.Rank, e.Nickname, probabilityDecimals, e.Probability)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func renderMonteCarlo(w io.Writer, rep *app.Report) error {
	mc := rep.MonteCarlo
	fmt.Fprintf(w, "Monte Carlo averaged frequencies (%d draws per trial):\n", mc.SampleSize)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "player\t")
	for _, reps := range mc.Repetitions {
		fmt.Fprintf(tw, "R=%d\t", reps)
	}
	fmt.Fprintln(tw)

	for i, id := range rep.Roster.IDs() {
		fmt.Fprintf(tw, "%s\t", rep.Nicknames[id])
		for b := range mc.Repetitions {
			fmt.Fprintf(tw, "%.*f\t", probabilityDecimals, mc.Averages[b][i])
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func renderComparisons(w io.Writer, rep *app.Report) error {
	fmt.Fprintln(w, "Validation (RMSE):")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range rep.Comparisons {
		fmt.Fprintf(tw, "%s\t%.6f\n", c.Name, c.Value)
	}
	return tw.Flush()
}
