package engine

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMTimeout         time.Duration

	TranscriptTimeout time.Duration
	TranscriptLangs   []string

	Variant  string
	MinCards int // 0 = variant default
	MaxCards int // 0 = variant default

	UIPort      string
	MCPPort     string
	CORSOrigins []string

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = watch page fetched with HTTPClient
}

// ErrNoAPIKey is returned by Validate when no LLM credential is configured.
var ErrNoAPIKey = errors.New("LLM_API_KEY is not set")

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		return ErrNoAPIKey
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive (got %s)", c.LLMTimeout)
	}
	if c.TranscriptTimeout <= 0 {
		return fmt.Errorf("TRANSCRIPT_TIMEOUT must be positive (got %s)", c.TranscriptTimeout)
	}
	if c.MinCards < 0 || c.MaxCards < 0 {
		return fmt.Errorf("card bounds must be non-negative (min=%d, max=%d)", c.MinCards, c.MaxCards)
	}
	if c.MinCards > 0 && c.MaxCards > 0 && c.MinCards > c.MaxCards {
		return fmt.Errorf("NOTECARDS_MIN_CARDS (%d) cannot exceed NOTECARDS_MAX_CARDS (%d)", c.MinCards, c.MaxCards)
	}
	if c.UIPort == c.MCPPort {
		return fmt.Errorf("UI_PORT and MCP_PORT must differ (both %s)", c.UIPort)
	}
	return nil
}
