// Package gemini adapts Google's Gemini API to content enhancement.
// The Enhancer cleans up user-submitted question and answer bodies before
// storage; callers treat any failure as "store the raw content".
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/stackit-qa/stackit-api/internal/config"
)

var (
	// ErrInvalidConfig indicates the enhancer was constructed with missing
	// or invalid configuration.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrEmptyContent indicates there was nothing to enhance.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyResponse indicates the model returned no usable text.
	ErrEmptyResponse = errors.New("empty model response")
)

const promptPrefix = "Improve the clarity, grammar, and formatting of the " +
	"following post from a programming Q&A site. Preserve its meaning, code " +
	"blocks, and technical details exactly. Reply with the improved text " +
	"only, no commentary.\n\n"

// Enhancer calls the Gemini API to polish post content. It satisfies the
// service.ContentEnhancer interface.
type Enhancer struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewEnhancer creates a new Enhancer from the LLM configuration.
// Returns ErrInvalidConfig if the API key or model name is missing.
func NewEnhancer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Enhancer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", ErrInvalidConfig, err)
	}

	return &Enhancer{
		logger: logger.With(slog.String("component", "gemini_enhancer")),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Enhance returns a polished rendition of content. The caller falls through
// to the raw content on any error.
func (e *Enhancer) Enhance(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}

	e.logger.DebugContext(ctx, "enhancing content",
		slog.Int("content_length", len(content)),
		slog.String("model", e.model))

	resp, err := e.client.Models.GenerateContent(
		ctx,
		e.model,
		genai.Text(promptPrefix+content),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini API call: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}

	e.logger.DebugContext(ctx, "content enhanced",
		slog.Int("enhanced_length", len(text)))
	return text, nil
}
