package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Generator turns a prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Completer is a single model round-trip with no retry of its own.
type Completer func(ctx context.Context, prompt string) (string, error)

// ErrEmptyResponse is returned when the model answers with blank text.
var ErrEmptyResponse = errors.New("empty model response")

// NewLLMCompleter builds a go-kit/llm client from c and exposes it as a Completer.
// A failed call whose last response carried a retryable status comes back as *HTTPStatusError.
func NewLLMCompleter(c Config) Completer {
	client := llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{
			Timeout:   c.LLMTimeout + 5*time.Second,
			Transport: statusTransport{base: http.DefaultTransport},
		}),
	)
	return func(ctx context.Context, prompt string) (string, error) {
		var status int
		text, err := client.Complete(context.WithValue(ctx, statusKey{}, &status), "", prompt)
		if err != nil && isRetryableStatus(status) {
			return "", fmt.Errorf("%w: %w", &HTTPStatusError{StatusCode: status}, err)
		}
		return text, err
	}
}

type statusKey struct{}

// statusTransport stores each response status in the *int carried by the request context.
type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if resp != nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}

// LLMGenerator calls the model under a per-attempt timeout with one retry.
type LLMGenerator struct {
	complete Completer
	retry    RetryConfig
}

// NewLLMGenerator wraps complete. timeout bounds each attempt.
func NewLLMGenerator(complete Completer, timeout time.Duration) *LLMGenerator {
	rc := GenerationRetryConfig
	rc.AttemptTimeout = timeout
	return &LLMGenerator{complete: complete, retry: rc}
}

// WithRetryConfig replaces the retry policy. Used by tests to shorten waits.
func (g *LLMGenerator) WithRetryConfig(rc RetryConfig) *LLMGenerator {
	g.retry = rc
	return g
}

// Generate sends prompt and returns the raw response text.
// The caller gets one error or the full text, never a partial answer.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := RetryDo(ctx, g.retry, func(ctx context.Context) (string, error) {
		metrics.LLMCalls.Add(1)
		resp, err := g.complete(ctx, prompt)
		if err != nil {
			metrics.LLMErrors.Add(1)
			return "", err
		}
		if strings.TrimSpace(resp) == "" {
			metrics.LLMErrors.Add(1)
			return "", ErrEmptyResponse
		}
		return resp, nil
	})
	if err != nil {
		return "", err
	}
	slog.Debug("llm: generated",
		slog.Int("prompt_chars", len(prompt)),
		slog.Int("response_chars", len(text)),
		slog.Duration("elapsed", time.Since(start)))
	return text, nil
}
