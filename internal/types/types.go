package types

// Source identifies where a comment was collected from.
type Source string

const (
	SourceReddit     Source = "reddit"
	SourceStockTwits Source = "stocktwits"
	SourceTwitter    Source = "twitter"
)

// Sources lists all collection sources in the fixed order used for
// aggregation and CSV columns.
var Sources = []Source{SourceReddit, SourceStockTwits, SourceTwitter}

// Directional is a ground-truth bullish/bearish tag supplied by the source
// itself (currently only StockTwits exposes one).
type Directional string

const (
	DirectionalNone    Directional = ""
	DirectionalBullish Directional = "bullish"
	DirectionalBearish Directional = "bearish"
)

// RawComment is a single comment as collected from a source, before cleanup
// and scoring.
type RawComment struct {
	Text        string
	Source      Source
	User        string
	Directional Directional
}

// SentimentRecord is a scored comment. Net is P(positive) - P(negative) from
// the classifier, in [-1, 1].
type SentimentRecord struct {
	Text        string
	Net         float64
	Source      Source
	Directional Directional
	User        string
}

// Predicted returns the label implied by the net score: bullish when the
// score is non-negative, bearish otherwise.
func (r SentimentRecord) Predicted() Directional {
	if r.Net >= 0 {
		return DirectionalBullish
	}
	return DirectionalBearish
}

// SourceStat holds per-source aggregates for one stock. Mean is NaN when the
// source produced no scored comments.
type SourceStat struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// MetricsRow is the per-stock output of one collection pass.
type MetricsRow struct {
	Symbol             string                `json:"symbol"`
	TotalComments      int                   `json:"total_comments"`
	TotalMeanSentiment float64               `json:"total_mean_sentiment"`
	BySource           map[Source]SourceStat `json:"by_source"`
	// DirectionalAccuracy compares the predicted label against the
	// ground-truth bullish/bearish tags on StockTwits comments. NaN when no
	// comment carried a tag.
	DirectionalAccuracy float64 `json:"directional_accuracy"`
}

// SourceTiming records how long one source took for one stock.
type SourceTiming struct {
	Symbol  string
	Source  Source
	Millis  int64
	Skipped bool
}
