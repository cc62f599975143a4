package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Config for the OpenAI-compatible extraction client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // per-request; default 120s, floor 30s
	MaxAttempts int           // total attempts incl. first; default 4
}

// Client issues schema-forced extraction requests. One client (and its
// limiter) is shared by every worker in a batch.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	// sleep is swapped out in tests to observe the backoff schedule.
	sleep func(time.Duration)
}

// NewClient builds a client around a shared rate limiter. A nil limiter
// disables client-side pacing.
func NewClient(cfg Config, limiter *rate.Limiter, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Timeout < 30*time.Second {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     logger,
		sleep:      time.Sleep,
	}
}
