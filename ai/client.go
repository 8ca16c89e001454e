package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/internal/prompt"
	"chatbot-catalog/backend/pkg/config"
	"chatbot-catalog/backend/pkg/logger"
)

// ErrEmptyCompletion is returned when the provider answered without any
// usable content. Callers decide what to substitute.
var ErrEmptyCompletion = errors.New("completion returned no content")

// Client wraps the OpenAI-compatible completion API with the model settings
// from configuration.
type Client struct {
	api         *openai.Client
	model       string
	temperature float64
	maxTokens   int64
	log         *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.LLM.APIKey)}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}
	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.LLM.Model,
		temperature: cfg.LLM.Temperature,
		maxTokens:   cfg.LLM.MaxTokens,
		log:         log,
	}
}

// Complete sends the assembled prompt and returns the assistant's reply.
// There are no retries; the caller's context bounds the call.
func (c *Client) Complete(ctx context.Context, messages []prompt.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(toMessageParams(messages)),
		Model:       openai.F(c.model),
		Temperature: openai.F(c.temperature),
		MaxTokens:   openai.F(c.maxTokens),
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		c.log.Warn("Completion came back empty", "model", c.model)
		return "", ErrEmptyCompletion
	}
	return completion.Choices[0].Message.Content, nil
}

func toMessageParams(messages []prompt.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch {
		case m.Role == "system":
			params = append(params, openai.SystemMessage(m.Text))
		case m.Role == models.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Text))
		case len(m.Parts) > 0:
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(m.Parts))
			for _, p := range m.Parts {
				if p.Type == "image_url" {
					parts = append(parts, openai.ImagePart(p.ImageURL))
				} else {
					parts = append(parts, openai.TextPart(p.Text))
				}
			}
			params = append(params, openai.UserMessageParts(parts...))
		default:
			params = append(params, openai.UserMessage(m.Text))
		}
	}
	return params
}
