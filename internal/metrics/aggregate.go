// Package metrics aggregates scored comments into per-stock rows and writes
// the run's output artifacts.
package metrics

import (
	"math"

	"sentiment-scanner/internal/types"
)

// Aggregate reduces one stock's scored comments to a MetricsRow. Per-source
// means and the total mean are NaN when the underlying group is empty: NaN
// is "no data", which a computed zero would silently misrepresent. The total
// mean is taken over the full ungrouped set, not averaged across sources, so
// a low-volume source cannot drag the total toward its own mean.
func Aggregate(symbol string, records []types.SentimentRecord) types.MetricsRow {
	row := types.MetricsRow{
		Symbol:   symbol,
		BySource: make(map[types.Source]types.SourceStat, len(types.Sources)),
	}

	sums := make(map[types.Source]float64, len(types.Sources))
	counts := make(map[types.Source]int, len(types.Sources))
	total := 0.0
	labeled, matched := 0, 0

	for _, r := range records {
		sums[r.Source] += r.Net
		counts[r.Source]++
		total += r.Net

		if r.Directional == types.DirectionalNone {
			continue
		}
		labeled++
		if r.Predicted() == r.Directional {
			matched++
		}
	}

	for _, src := range types.Sources {
		stat := types.SourceStat{Count: counts[src], Mean: math.NaN()}
		if stat.Count > 0 {
			stat.Mean = sums[src] / float64(stat.Count)
		}
		row.BySource[src] = stat
		row.TotalComments += stat.Count
	}

	row.TotalMeanSentiment = math.NaN()
	if row.TotalComments > 0 {
		row.TotalMeanSentiment = total / float64(row.TotalComments)
	}

	row.DirectionalAccuracy = math.NaN()
	if labeled > 0 {
		row.DirectionalAccuracy = float64(matched) / float64(labeled)
	}

	return row
}

// Signal derives a coarse trade signal from an aggregated row: LONG when the
// mean is at or above positiveLevel, SHORT when at or below its negation,
// NONE otherwise or when the sample is too small to trust.
func Signal(row types.MetricsRow, positiveLevel float64, minSample int) string {
	if row.TotalComments < minSample || math.IsNaN(row.TotalMeanSentiment) {
		return "NONE"
	}
	switch {
	case row.TotalMeanSentiment >= positiveLevel:
		return "LONG"
	case row.TotalMeanSentiment <= -positiveLevel:
		return "SHORT"
	}
	return "NONE"
}
