package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/olekukonko/tablewriter"

	"sentiment-scanner/internal/types"
)

// csvHeader is the stable column order for the results artifact. Downstream
// tooling keys on these names; do not reorder.
func csvHeader() []string {
	header := []string{"symbol", "total_comments", "total_mean_sentiment"}
	for _, src := range types.Sources {
		header = append(header,
			fmt.Sprintf("%s_count", src),
			fmt.Sprintf("%s_mean", src),
		)
	}
	return append(header, "stocktwits_accuracy")
}

// WriteCSV emits one row per stock, sorted by symbol so diffs between runs
// stay readable. NaN means "no data" and is written literally rather than
// as zero.
func WriteCSV(w io.Writer, rows []types.MetricsRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader()); err != nil {
		return err
	}

	sorted := make([]types.MetricsRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	for _, row := range sorted {
		record := []string{
			row.Symbol,
			fmt.Sprintf("%d", row.TotalComments),
			formatFloat(row.TotalMeanSentiment),
		}
		for _, src := range types.Sources {
			stat := row.BySource[src]
			record = append(record,
				fmt.Sprintf("%d", stat.Count),
				formatFloat(stat.Mean),
			)
		}
		record = append(record, formatFloat(row.DirectionalAccuracy))
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTimerCSV emits the per-source elapsed-time table parallel to the
// results artifact.
func WriteTimerCSV(w io.Writer, timings []types.SourceTiming) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"symbol", "source", "elapsed_ms", "skipped"}); err != nil {
		return err
	}
	for _, t := range timings {
		record := []string{
			t.Symbol,
			string(t.Source),
			fmt.Sprintf("%d", t.Millis),
			fmt.Sprintf("%t", t.Skipped),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderTable prints the run summary to w for interactive use, including the
// derived trade signal.
func RenderTable(w io.Writer, rows []types.MetricsRow, positiveLevel float64, minSample int) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Symbol", "Comments", "Mean", "ST Accuracy", "Signal"}),
	)

	sorted := make([]types.MetricsRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	for _, row := range sorted {
		table.Append([]string{
			row.Symbol,
			fmt.Sprintf("%d", row.TotalComments),
			formatFloat(row.TotalMeanSentiment),
			formatFloat(row.DirectionalAccuracy),
			Signal(row, positiveLevel, minSample),
		})
	}
	table.Render()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}
