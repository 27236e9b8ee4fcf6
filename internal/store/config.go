package store

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Feed      FeedConfig      `yaml:"feed"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Quota     QuotaConfig     `yaml:"quota"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Trend     TrendConfig     `yaml:"trend"`
	Prices    PricesConfig    `yaml:"prices"`
	Recorder  RecorderConfig  `yaml:"recorder"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type FeedConfig struct {
	URL         string `yaml:"url"`
	MaxArticles int    `yaml:"max_articles"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

type QuotaConfig struct {
	MaxRequestsPerMinute int   `yaml:"max_requests_per_minute"`
	MaxRequestsPerDay    int   `yaml:"max_requests_per_day"`
	AllowFallback        *bool `yaml:"allow_fallback"`
}

type SentimentConfig struct {
	Provider    string    `yaml:"provider"` // "GEMINI" or "HUGGINGFACE"
	Gemini      ModelPair `yaml:"gemini"`
	HuggingFace ModelPair `yaml:"huggingface"`
}

// ModelPair names a primary model and the cheaper model used when the
// request budget is nearly exhausted.
type ModelPair struct {
	Model         string `yaml:"model"`
	FallbackModel string `yaml:"fallback_model"`
}

type TrendConfig struct {
	MinTrainingRows int `yaml:"min_training_rows"`
	ShortWindow     int `yaml:"short_window"`
	LongWindow      int `yaml:"long_window"`
	RSIPeriod       int `yaml:"rsi_period"`
}

type PricesConfig struct {
	BaseURL    string  `yaml:"base_url"`
	Range      string  `yaml:"range"`
	RatePerSec float64 `yaml:"rate_per_sec"`
}

type RecorderConfig struct {
	Backend string `yaml:"backend"` // "jsonl", "sqlite" or "none"
	Path    string `yaml:"path"`
}

// AllowFallback resolves the pointer field; fallback routing is on by default.
func (c *Config) AllowFallback() bool {
	return c.Quota.AllowFallback == nil || *c.Quota.AllowFallback
}

func (c *Config) Validate() error {
	if c.Quota.MaxRequestsPerMinute <= 0 {
		return fmt.Errorf("quota.max_requests_per_minute must be positive, got %d", c.Quota.MaxRequestsPerMinute)
	}
	if c.Quota.MaxRequestsPerDay <= 0 {
		return fmt.Errorf("quota.max_requests_per_day must be positive, got %d", c.Quota.MaxRequestsPerDay)
	}
	if c.Trend.MinTrainingRows <= c.Trend.LongWindow {
		return fmt.Errorf("trend.min_training_rows must exceed the long window, got %d", c.Trend.MinTrainingRows)
	}
	switch c.Sentiment.Provider {
	case "GEMINI", "HUGGINGFACE":
	default:
		return fmt.Errorf("sentiment.provider must be 'GEMINI' or 'HUGGINGFACE', got '%s'", c.Sentiment.Provider)
	}
	switch c.Recorder.Backend {
	case "jsonl", "sqlite", "none":
	default:
		return fmt.Errorf("recorder.backend must be 'jsonl', 'sqlite' or 'none', got '%s'", c.Recorder.Backend)
	}
	return nil
}

// LoadConfig reads the YAML config, applies environment overrides and
// defaults, and validates the result. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment overrides
	if v := os.Getenv("RSS_FEED_URL"); v != "" {
		c.Feed.URL = v
	}
	if v, ok := intEnv("MAX_REQUESTS_PER_MINUTE"); ok {
		c.Quota.MaxRequestsPerMinute = v
	}
	if v, ok := intEnv("MAX_REQUESTS_PER_DAY"); ok {
		c.Quota.MaxRequestsPerDay = v
	}
	if v := os.Getenv("ALLOW_FALLBACK"); v != "" {
		b := v == "true" || v == "1"
		c.Quota.AllowFallback = &b
	}
	if v := os.Getenv("GENAI_PRO_MODEL"); v != "" {
		c.Sentiment.Gemini.Model = v
	}
	if v := os.Getenv("GENAI_FALLBACK_MODEL"); v != "" {
		c.Sentiment.Gemini.FallbackModel = v
	}
	if v := os.Getenv("HF_PRO_MODEL"); v != "" {
		c.Sentiment.HuggingFace.Model = v
	}
	if v := os.Getenv("HF_FALLBACK_MODEL"); v != "" {
		c.Sentiment.HuggingFace.FallbackModel = v
	}

	// Defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Feed.URL == "" {
		c.Feed.URL = "https://in.finance.yahoo.com/rss/topstories"
	}
	if c.Feed.MaxArticles == 0 {
		c.Feed.MaxArticles = 5
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "@hourly"
	}
	if c.Quota.MaxRequestsPerMinute == 0 {
		c.Quota.MaxRequestsPerMinute = 5
	}
	if c.Quota.MaxRequestsPerDay == 0 {
		c.Quota.MaxRequestsPerDay = 100
	}
	if c.Sentiment.Provider == "" {
		c.Sentiment.Provider = "GEMINI"
	}
	if c.Sentiment.Gemini.Model == "" {
		c.Sentiment.Gemini.Model = "gemini-1.5-pro"
	}
	if c.Sentiment.Gemini.FallbackModel == "" {
		c.Sentiment.Gemini.FallbackModel = "gemini-1.5-flash"
	}
	if c.Sentiment.HuggingFace.Model == "" {
		c.Sentiment.HuggingFace.Model = "ProsusAI/finbert"
	}
	if c.Sentiment.HuggingFace.FallbackModel == "" {
		c.Sentiment.HuggingFace.FallbackModel = "distilbert-base-uncased-finetuned-sst-2-english"
	}
	if c.Trend.MinTrainingRows == 0 {
		c.Trend.MinTrainingRows = 25
	}
	if c.Trend.ShortWindow == 0 {
		c.Trend.ShortWindow = 5
	}
	if c.Trend.LongWindow == 0 {
		c.Trend.LongWindow = 20
	}
	if c.Trend.RSIPeriod == 0 {
		c.Trend.RSIPeriod = 14
	}
	if c.Prices.BaseURL == "" {
		c.Prices.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Prices.Range == "" {
		c.Prices.Range = "3mo"
	}
	if c.Prices.RatePerSec == 0 {
		c.Prices.RatePerSec = 2
	}
	if c.Recorder.Backend == "" {
		c.Recorder.Backend = "jsonl"
	}
	if c.Recorder.Path == "" {
		if c.Recorder.Backend == "sqlite" {
			c.Recorder.Path = "predictions.db"
		} else {
			c.Recorder.Path = "predictions_log.jsonl"
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func intEnv(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
