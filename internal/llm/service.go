// Package llm calls the hosted completion providers through langchaingo.
// One client per provider is built at startup and shared by all requests.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/ovn531/faisal/internal/router"
)

// ErrUpstream is returned when a completion provider fails for any reason.
var ErrUpstream = errors.New("completion provider failed")

// completionTimeout bounds a single provider call. The call is attempted once,
// never retried.
const completionTimeout = 30 * time.Second

// Config carries the provider credentials and optional model overrides.
type Config struct {
	OpenAIKey     string
	OpenAIBaseURL string // optional, e.g. a local OpenAI-compatible runner
	AnthropicKey  string
	GoogleKey     string
}

type Service struct {
	clients map[router.Provider]llms.Model
}

// New builds one langchaingo client per configured provider.
func New(ctx context.Context, cfg Config) (*Service, error) {
	openaiOpts := []openai.Option{openai.WithToken(cfg.OpenAIKey)}
	if cfg.OpenAIBaseURL != "" {
		openaiOpts = append(openaiOpts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}
	openaiClient, err := openai.New(openaiOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing openai client: %w", err)
	}

	anthropicClient, err := anthropic.New(anthropic.WithToken(cfg.AnthropicKey))
	if err != nil {
		return nil, fmt.Errorf("initializing anthropic client: %w", err)
	}

	googleClient, err := googleai.New(ctx, googleai.WithAPIKey(cfg.GoogleKey))
	if err != nil {
		return nil, fmt.Errorf("initializing googleai client: %w", err)
	}

	return &Service{
		clients: map[router.Provider]llms.Model{
			router.ProviderOpenAI:    openaiClient,
			router.ProviderAnthropic: anthropicClient,
			router.ProviderGoogle:    googleClient,
		},
	}, nil
}

// Complete sends the binding's persona prompt plus the raw user text to the
// bound provider and returns the reply. Any transport or provider failure is
// reported as ErrUpstream.
func (s *Service) Complete(ctx context.Context, binding router.Binding, userText string) (string, error) {
	client, ok := s.clients[binding.Provider]
	if !ok {
		return "", fmt.Errorf("%w: no client for provider %q", ErrUpstream, binding.Provider)
	}

	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, binding.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userText),
	}

	resp, err := client.GenerateContent(ctx, messages, llms.WithModel(binding.Model))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from %s", ErrUpstream, binding.Provider)
	}
	return resp.Choices[0].Content, nil
}
