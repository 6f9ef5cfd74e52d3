// Package llm provides a chat client for an Ollama-compatible language
// backend. It is the only component expected to block for non-trivial
// wall-clock time; calls carry a timeout and a single bounded retry
// against a smaller fallback model.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/domain"
)

// Compile-time interface check.
var _ domain.ChatClient = (*Client)(nil)

// Defaults matching a local Ollama install.
const (
	DefaultBaseURL       = "http://localhost:11434"
	DefaultModel         = "gemma3:1b"
	DefaultFallbackModel = "gemma3:1b"
	DefaultTimeout       = 5 * time.Minute
	fallbackTimeout      = 60 * time.Second
)

// Option configures the client.
type Option func(*Client)

// WithDefaultModel sets the model used when a request names none.
func WithDefaultModel(model string) Option {
	return func(c *Client) { c.defaultModel = model }
}

// WithFallbackModel sets the model retried once after a timeout.
func WithFallbackModel(model string) Option {
	return func(c *Client) { c.fallbackModel = model }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Observer is the subset of prometheus.Histogram the client needs.
type Observer interface {
	Observe(float64)
}

// WithLatencyObserver records the wall-clock seconds of every chat
// round trip, successful or not.
func WithLatencyObserver(o Observer) Option {
	return func(c *Client) { c.latency = o }
}

// Client talks to the /api/chat and /api/tags endpoints of an Ollama
// server.
type Client struct {
	baseURL       string
	defaultModel  string
	fallbackModel string
	timeout       time.Duration
	http          *http.Client
	log           zerolog.Logger
	latency       Observer
}

// NewClient creates a chat client for the given base URL.
func NewClient(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       baseURL,
		defaultModel:  DefaultModel,
		fallbackModel: DefaultFallbackModel,
		timeout:       DefaultTimeout,
		http:          &http.Client{},
		log:           log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ── Wire types ───────────────────────────────────────────────────

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  chatRequestOptions   `json:"options"`
}

type chatRequestOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatResponse struct {
	Message *domain.ChatMessage `json:"message"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ── API ──────────────────────────────────────────────────────────

// Chat sends a completion request and returns the assistant's reply.
// A timed-out request is retried exactly once against the fallback model
// with a shorter deadline; all other failures surface immediately as
// ErrUpstream.
func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage, opts domain.ChatOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4000
	}

	reply, err := c.complete(ctx, model, messages, temperature, maxTokens, c.timeout)
	if err == nil {
		return reply, nil
	}

	if isTimeout(err) && model != c.fallbackModel {
		c.log.Warn().Str("model", model).Str("fallback", c.fallbackModel).Msg("chat timed out, retrying with fallback model")
		reply, fbErr := c.complete(ctx, c.fallbackModel, messages, temperature, maxTokens, fallbackTimeout)
		if fbErr == nil {
			return reply, nil
		}
		return "", fmt.Errorf("%w: %s timed out and fallback %s failed: %v", domain.ErrUpstream, model, c.fallbackModel, fbErr)
	}
	return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}

// complete performs a single chat round-trip.
func (c *Client) complete(ctx context.Context, model string, messages []domain.ChatMessage, temperature float64, maxTokens int, timeout time.Duration) (string, error) {
	if c.latency != nil {
		start := time.Now()
		defer func() { c.latency.Observe(time.Since(start).Seconds()) }()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options:  chatRequestOptions{Temperature: temperature, NumPredict: maxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("model", model).Int("bytes", len(body)).Msg("chat request")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned %s: %s", resp.Status, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Message == nil {
		return "", fmt.Errorf("unexpected response shape: %s", truncate(string(respBody), 200))
	}

	c.log.Debug().Str("model", model).Int("chars", len(parsed.Message.Content)).Msg("chat reply")
	return parsed.Message.Content, nil
}

// ListModels returns the names of the models the backend has available.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list models: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list models returned %s", domain.ErrUpstream, resp.Status)
	}

	var parsed tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode models: %v", domain.ErrUpstream, err)
	}

	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Health reports whether the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

// isTimeout reports whether err stems from an expired deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
