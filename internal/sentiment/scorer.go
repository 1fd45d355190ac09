package sentiment

import (
	"context"

	"sentiment-scanner/internal/types"
)

// Scorer turns raw comments into sentiment records.
type Scorer struct {
	classifier Classifier
}

func NewScorer(classifier Classifier) *Scorer {
	return &Scorer{classifier: classifier}
}

// Score cleans and classifies one comment. A nil record with a nil error
// means the comment had no scoreable text after cleanup and is dropped. The
// net score is P(positive) - P(negative); neutral mass dilutes the magnitude
// but never flips the sign. The source's own bullish/bearish tag rides along
// untouched for accuracy bookkeeping.
func (s *Scorer) Score(ctx context.Context, c types.RawComment) (*types.SentimentRecord, error) {
	cleaned := Clean(c.Text)
	if cleaned == "" {
		return nil, nil
	}

	probs, err := s.classifier.Classify(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	return &types.SentimentRecord{
		Text:        cleaned,
		Net:         probs.Positive - probs.Negative,
		Source:      c.Source,
		Directional: c.Directional,
		User:        c.User,
	}, nil
}
