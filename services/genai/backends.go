package genai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultGeminiModel    = "gemini-2.0-flash"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = string(anthropic.ModelClaude4Sonnet20250514)

	anthropicMaxTokens = 4096
)

type BackendConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
}

// NewBackendFactory returns a factory for the configured provider. The API
// key is checked when the factory runs, not here, so a server can start
// without one.
func NewBackendFactory(cfg BackendConfig) BackendFactory {
	return func(ctx context.Context) (Backend, error) {
		switch cfg.Provider {
		case ProviderOpenAI:
			if cfg.APIKey == "" {
				return nil, &ConfigError{Key: "OPENAI_API_KEY"}
			}
			model := modelOrDefault(cfg.Model, defaultOpenAIModel)
			llm, err := openai.New(
				openai.WithModel(model),
				openai.WithToken(cfg.APIKey),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
			}
			return &langchainBackend{name: ProviderOpenAI, llm: llm, temperature: cfg.Temperature}, nil

		case ProviderAnthropic:
			if cfg.APIKey == "" {
				return nil, &ConfigError{Key: "ANTHROPIC_API_KEY"}
			}
			client := anthropic.NewClient(
				option.WithAPIKey(cfg.APIKey),
				option.WithMaxRetries(0),
			)
			return &anthropicBackend{
				client:      &client,
				model:       modelOrDefault(cfg.Model, defaultAnthropicModel),
				temperature: cfg.Temperature,
			}, nil

		case ProviderGemini, "":
			if cfg.APIKey == "" {
				return nil, &ConfigError{Key: "GEMINI_API_KEY"}
			}
			llm, err := googleai.New(ctx,
				googleai.WithAPIKey(cfg.APIKey),
				googleai.WithDefaultModel(modelOrDefault(cfg.Model, defaultGeminiModel)),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create Gemini client: %w", err)
			}
			return &langchainBackend{name: ProviderGemini, llm: llm, temperature: cfg.Temperature}, nil

		default:
			return nil, &ConfigError{Key: "LLM_PROVIDER"}
		}
	}
}

func modelOrDefault(model, fallback string) string {
	if strings.TrimSpace(model) == "" {
		return fallback
	}
	return model
}

// langchainBackend serves every provider reachable through langchaingo.
type langchainBackend struct {
	name        string
	llm         llms.Model
	temperature float64
}

func (b *langchainBackend) Name() string { return b.name }

func (b *langchainBackend) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	resp, err := b.llm.GenerateContent(ctx, messages, llms.WithTemperature(b.temperature))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &BackendError{
			Provider:   b.name,
			StatusCode: statusFromMessage(err.Error()),
			Message:    err.Error(),
			Err:        err,
		}
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

var statusPattern = regexp.MustCompile(`(?i)(?:error|status code:?)\s*(\d{3})\b`)

// statusFromMessage recovers an HTTP status from provider error text such as
// "googleapi: Error 503: ..." or "API returned unexpected status code: 429".
func statusFromMessage(msg string) int {
	match := statusPattern.FindStringSubmatch(msg)
	if match == nil {
		return 0
	}
	code, err := strconv.Atoi(match[1])
	if err != nil || code < 100 || code > 599 {
		return 0
	}
	return code
}

type anthropicBackend struct {
	client      *anthropic.Client
	model       string
	temperature float64
}

func (b *anthropicBackend) Name() string { return ProviderAnthropic }

func (b *anthropicBackend) Generate(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(b.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		backendErr := &BackendError{Provider: ProviderAnthropic, Message: err.Error(), Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			backendErr.StatusCode = apiErr.StatusCode
		}
		return "", backendErr
	}

	var text strings.Builder
	for _, block := range resp.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}
