package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Window controls how far back each collection pass looks.
	Window    WindowConfig    `yaml:"window"`
	Universe  UniverseConfig  `yaml:"universe"`
	Reddit    RedditConfig    `yaml:"reddit"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Output    OutputConfig    `yaml:"output"`
}

type WindowConfig struct {
	TrendingBaseHours int `yaml:"trending_base_hours"`
	QuietBaseHours    int `yaml:"quiet_base_hours"`
}

type UniverseConfig struct {
	// Watchlist seeds the universe; keys are tickers, values are extra
	// keywords kept verbatim.
	Watchlist       map[string][]string `yaml:"watchlist"`
	UseTrendingFeed bool                `yaml:"use_trending_feed"`
	UseShortedFeed  bool                `yaml:"use_shorted_feed"`
	MinMarketCap    float64             `yaml:"min_market_cap"`
	// DiscoveryPerMinute caps calls to the discovery/market-cap
	// collaborators.
	DiscoveryPerMinute int `yaml:"discovery_per_minute"`
}

type RedditConfig struct {
	Subreddit   string `yaml:"subreddit"`
	BaseURL     string `yaml:"base_url"`
	MaxComments int    `yaml:"max_comments"`
}

type ScrollConfig struct {
	PauseMillis   int `yaml:"pause_millis"`
	MaxIterations int `yaml:"max_iterations"`
	// MinReplies is the smallest reply count for which a collapsed
	// "more replies" control is worth expanding.
	MinReplies int `yaml:"min_replies"`
	MaxClicks  int `yaml:"max_clicks"`
}

type SentimentConfig struct {
	EndpointURL   string  `yaml:"endpoint_url"`
	APIKeyEnv     string  `yaml:"api_key_env"`
	PositiveLevel float64 `yaml:"positive_level"`
	MinSample     int     `yaml:"min_sample"`
}

type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxAttempts    int `yaml:"max_attempts"`
	BackoffMillis  int `yaml:"backoff_millis"`
	RequestsPerMin int `yaml:"requests_per_min"`
}

type OutputConfig struct {
	ResultsPath string `yaml:"results_path"`
	TimerPath   string `yaml:"timer_path"`
}

func (c *Config) Validate() error {
	if c.Window.TrendingBaseHours <= 0 {
		return fmt.Errorf("window.trending_base_hours must be positive, got %d", c.Window.TrendingBaseHours)
	}
	if c.Window.QuietBaseHours < c.Window.TrendingBaseHours {
		return fmt.Errorf("window.quiet_base_hours (%d) must be >= trending_base_hours (%d)",
			c.Window.QuietBaseHours, c.Window.TrendingBaseHours)
	}
	if len(c.Universe.Watchlist) == 0 && !c.Universe.UseTrendingFeed && !c.Universe.UseShortedFeed {
		return fmt.Errorf("universe is empty: configure a watchlist or enable a discovery feed")
	}
	if c.Universe.MinMarketCap < 0 {
		return fmt.Errorf("universe.min_market_cap cannot be negative, got %.0f", c.Universe.MinMarketCap)
	}
	if c.Sentiment.PositiveLevel < 0 || c.Sentiment.PositiveLevel > 1 {
		return fmt.Errorf("sentiment.positive_level must be in [0,1], got %.2f", c.Sentiment.PositiveLevel)
	}
	if c.Scroll.MaxIterations <= 0 {
		return fmt.Errorf("scroll.max_iterations must be positive, got %d", c.Scroll.MaxIterations)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Window.TrendingBaseHours == 0 {
		c.Window.TrendingBaseHours = 6
	}
	if c.Window.QuietBaseHours == 0 {
		c.Window.QuietBaseHours = 72
	}
	if c.Reddit.Subreddit == "" {
		c.Reddit.Subreddit = "wallstreetbets"
	}
	if c.Reddit.BaseURL == "" {
		c.Reddit.BaseURL = "https://api.pullpush.io"
	}
	if c.Reddit.MaxComments == 0 {
		c.Reddit.MaxComments = 1000
	}
	if c.Scroll.PauseMillis == 0 {
		c.Scroll.PauseMillis = 500
	}
	if c.Scroll.MaxIterations == 0 {
		c.Scroll.MaxIterations = 40
	}
	if c.Scroll.MinReplies == 0 {
		c.Scroll.MinReplies = 100
	}
	if c.Scroll.MaxClicks == 0 {
		c.Scroll.MaxClicks = 10
	}
	if c.Sentiment.PositiveLevel == 0 {
		c.Sentiment.PositiveLevel = 0.6
	}
	if c.Sentiment.MinSample == 0 {
		c.Sentiment.MinSample = 60
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = 3
	}
	if c.Fetch.BackoffMillis == 0 {
		c.Fetch.BackoffMillis = 500
	}
	if c.Fetch.RequestsPerMin == 0 {
		c.Fetch.RequestsPerMin = 60
	}
	if c.Universe.DiscoveryPerMinute == 0 {
		c.Universe.DiscoveryPerMinute = 30
	}
	if c.Output.ResultsPath == "" {
		c.Output.ResultsPath = "results.csv"
	}
	if c.Output.TimerPath == "" {
		c.Output.TimerPath = "timer.csv"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
