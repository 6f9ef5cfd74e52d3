package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/domain"
)

const (
	defaultMaxRetries = 2

	extractionTemperature = 0.3
	extractionMaxTokens   = 2000
	repairTemperature     = 0.1
	repairMaxTokens       = 2000
)

// Counter is the subset of prometheus.Counter the extractor needs.
type Counter interface {
	Inc()
}

// Extractor turns a raw transcript into a structured Recipe by asking
// the language backend and repairing its output when needed.
type Extractor struct {
	chat       domain.ChatClient
	log        zerolog.Logger
	maxRetries int
	fallbacks  []string

	attempts Counter
	failures Counter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxRetries bounds how many extra extraction rounds run after the
// first one fails.
func WithMaxRetries(n int) Option {
	return func(e *Extractor) { e.maxRetries = n }
}

// WithFallbackModels sets the models tried when the preferred one is
// not installed on the backend.
func WithFallbackModels(models []string) Option {
	return func(e *Extractor) { e.fallbacks = models }
}

// WithCounters wires attempt and failure counters.
func WithCounters(attempts, failures Counter) Option {
	return func(e *Extractor) {
		e.attempts = attempts
		e.failures = failures
	}
}

func New(chat domain.ChatClient, log zerolog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		chat:       chat,
		log:        log,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the extraction loop. Each round asks the backend for
// the recipe; a parse or validation failure triggers one repair pass
// over the malformed output before the round is counted as failed.
// modelHint overrides the backend's preferred model when non-empty.
func (e *Extractor) Extract(ctx context.Context, transcript, modelHint string) (*domain.Recipe, error) {
	model := e.resolveModel(ctx, modelHint)
	log := e.log.With().Str("model", model).Logger()

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: extractionSystemPrompt},
		{Role: domain.RoleUser, Content: extractionUserPrompt(transcript)},
	}

	var lastErr error
	sawOutput := false
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if e.attempts != nil {
			e.attempts.Inc()
		}
		raw, err := e.chat.Chat(ctx, messages, domain.ChatOptions{
			Model:       model,
			Temperature: extractionTemperature,
			MaxTokens:   extractionMaxTokens,
		})
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("extraction request failed")
			continue
		}
		sawOutput = true

		recipe, err := decodeRecipe(raw)
		if err == nil {
			log.Info().Str("title", recipe.Title).Int("steps", len(recipe.Steps)).Msg("recipe extracted")
			return recipe, nil
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("extraction output rejected, attempting repair")

		recipe, repairErr := e.repair(ctx, model, raw)
		if repairErr == nil {
			log.Info().Str("title", recipe.Title).Int("steps", len(recipe.Steps)).Msg("recipe extracted after repair")
			return recipe, nil
		}
		lastErr = repairErr
	}

	if e.failures != nil {
		e.failures.Inc()
	}
	// When the backend never produced any output the problem is the
	// backend, not the extraction; keep the upstream error so callers
	// report it as such.
	if !sawOutput && errors.Is(lastErr, domain.ErrUpstream) {
		return nil, fmt.Errorf("extraction: %w", lastErr)
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", domain.ErrExtractionFailed, e.maxRetries+1, lastErr)
}

// repair asks the backend to fix malformed output at low temperature.
func (e *Extractor) repair(ctx context.Context, model, malformed string) (*domain.Recipe, error) {
	raw, err := e.chat.Chat(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: jsonFixSystemPrompt},
		{Role: domain.RoleUser, Content: jsonFixUserPrompt(malformed)},
	}, domain.ChatOptions{
		Model:       model,
		Temperature: repairTemperature,
		MaxTokens:   repairMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecipe(raw)
}

// resolveModel matches the hint against what the backend reports as
// installed. A failed listing falls back to the hint unchanged.
func (e *Extractor) resolveModel(ctx context.Context, hint string) string {
	available, err := e.chat.ListModels(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("could not list models, using hint as-is")
		return hint
	}
	return ResolveModel(hint, available, e.fallbacks)
}
