package sentiment

import (
	"context"
	"errors"
	"fmt"
	"os"

	"sentiment-scanner/internal/api"
	"sentiment-scanner/internal/store"
)

// Probs is the classifier's per-class probability triple, summing to ~1.
type Probs struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Classifier assigns class probabilities to a cleaned comment.
type Classifier interface {
	Classify(ctx context.Context, text string) (Probs, error)
}

// ErrNoResult signals that the classifier has nothing to score, in
// particular empty input.
var ErrNoResult = errors.New("sentiment: no result")

// HTTPClassifier calls a hosted sentiment model over JSON. The API key is
// read from the environment at construction so a missing key fails the run
// at startup, not on the first comment.
type HTTPClassifier struct {
	client *api.Client
	url    string
	apiKey string
}

func NewHTTPClassifier(client *api.Client, cfg store.SentimentConfig) (*HTTPClassifier, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if cfg.APIKeyEnv != "" && key == "" {
		return nil, fmt.Errorf("sentiment: environment variable %s is not set", cfg.APIKeyEnv)
	}
	return &HTTPClassifier{client: client, url: cfg.EndpointURL, apiKey: key}, nil
}

func (h *HTTPClassifier) Classify(ctx context.Context, text string) (Probs, error) {
	if text == "" {
		return Probs{}, ErrNoResult
	}

	req := api.NewRequest("POST", h.url).
		WithContext(ctx).
		WithBody(map[string]string{"text": text})
	if h.apiKey != "" {
		req.WithHeader("Authorization", "Bearer "+h.apiKey)
	}

	// Transient inference-endpoint errors are retried here so a hiccup costs
	// a single comment at most, not the whole source.
	resp, err := h.client.DoWithRetry(req, nil)
	if err != nil {
		return Probs{}, fmt.Errorf("sentiment: classify: %w", err)
	}

	var probs Probs
	if err := resp.ParseJSON(&probs); err != nil {
		return Probs{}, fmt.Errorf("sentiment: classify: %w", err)
	}
	return probs, nil
}
