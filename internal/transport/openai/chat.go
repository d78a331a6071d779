package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/metrics"
)

// ChatConfig holds chat completion settings on top of the provider Config.
type ChatConfig struct {
	Config
	Temperature float32
	MaxTokens   int
}

// Chat is a chat completion client for OpenAI-compatible APIs.
type Chat struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	user        string
	logger      *zap.Logger
}

// NewChat creates a chat completion client.
func NewChat(cfg *ChatConfig) *Chat {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chat{
		client:      newClient(&cfg.Config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		user:        cfg.User,
		logger:      logger,
	}
}

// Model returns the configured chat model.
func (c *Chat) Model() string { return c.model }

// Complete implements domain.ChatCompleter.
func (c *Chat) Complete(ctx context.Context, messages []domain.ChatMessage) (domain.ChatResult, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		User:        c.user,
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	metrics.ChatRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.ChatResult{}, wrapAPIError("chat", err, domain.ErrChatProviderError)
	}
	if len(resp.Choices) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.ChatResult{}, fmt.Errorf("empty chat response: %w", domain.ErrChatProviderError)
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.model, "ok").Inc()
	metrics.ChatTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.ChatTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	c.logger.Debug("Chat completion finished",
		zap.String("model", resp.Model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return domain.ChatResult{
		Content:          resp.Choices[0].Message.Content,
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}
