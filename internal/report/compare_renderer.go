package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/pagepulse/pagepulse/pkg/baseline"
)

// ComparisonTextRenderer renders the delta between a measurement and its
// stored baseline.
type ComparisonTextRenderer struct{}

func (r *ComparisonTextRenderer) Render(result *baseline.ComparisonResult, w io.Writer) error {
	if result == nil {
		_, _ = fmt.Fprintln(w, "Nothing to compare.")
		return nil
	}

	_, _ = fmt.Fprintf(w, "\n🔁 COMPARISON: %s\n", result.Current.URL)
	_, _ = fmt.Fprintf(w, "Baseline from %s\n", result.Previous.Timestamp.Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintln(w, "==================================================")

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SCORE\tBEFORE\tAFTER\tCHANGE")
	_, _ = fmt.Fprintln(tw, "-----\t------\t-----\t------")
	for _, score := range result.Scores {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			score.Category, score.Previous, score.Current, deltaString(float64(score.Delta), score.Delta > 0))
	}
	_ = tw.Flush()

	if len(result.Metrics) > 0 {
		_, _ = fmt.Fprintln(w, "")
		tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(tw, "METRIC\tBEFORE\tAFTER\tCHANGE")
		_, _ = fmt.Fprintln(tw, "------\t------\t-----\t------")
		for _, m := range result.Metrics {
			_, _ = fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%s (%.1f%%)\n",
				m.Key, m.Previous, m.Current, deltaString(m.Delta, m.Improved), m.PercentDelta)
		}
		_ = tw.Flush()
	} else {
		_, _ = fmt.Fprintln(w, "\nNo metric changes.")
	}

	_, _ = fmt.Fprintln(w, "--------------------------------------------------")
	if result.Summary.HasRegression {
		_, _ = fmt.Fprintf(w, "%s performance regressed against the baseline\n", color.RedString("🚨 REGRESSION:"))
	} else {
		_, _ = fmt.Fprintf(w, "%s no regression against the baseline\n", color.GreenString("✅ OK:"))
	}

	return nil
}

func deltaString(delta float64, improved bool) string {
	s := fmt.Sprintf("%+.0f", delta)
	if improved {
		return color.GreenString(s)
	}
	return color.RedString(s)
}
