package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/latestcomment/courtroom-game/internal/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ReplyGenerator produces one short character line for a role prompt and context.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, rolePrompt, userInput string) (string, error)
}

// OpenAIReplyClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIReplyClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

func newOpenAIClient(cfg *config.Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.AIAPIKey)
	clientCfg.BaseURL = cfg.AIBaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
	return openai.NewClientWithConfig(clientCfg)
}

func NewOpenAIReplyClient(cfg *config.Config, logger *zap.Logger) *OpenAIReplyClient {
	return &OpenAIReplyClient{
		client:      newOpenAIClient(cfg),
		model:       cfg.AIModel,
		maxTokens:   cfg.AIMaxTokens,
		temperature: cfg.AITemperature,
		logger:      logger.Named("ReplyClient"),
	}
}

func (c *OpenAIReplyClient) GenerateReply(ctx context.Context, rolePrompt, userInput string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rolePrompt},
			{Role: openai.ChatMessageRoleUser, Content: userInput},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	aiRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			aiRequestsTotal.WithLabelValues("chat", "canceled").Inc()
			return "", ctxErr
		}
		aiRequestsTotal.WithLabelValues("chat", "error").Inc()
		c.logger.Warn("chat completion failed", zap.String("model", c.model), zap.Int("status", statusOf(err)), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		aiRequestsTotal.WithLabelValues("chat", "empty").Inc()
		return "", fmt.Errorf("%w: no response choices received", ErrUpstream)
	}

	aiRequestsTotal.WithLabelValues("chat", "success").Inc()
	c.logger.Debug("chat completion received",
		zap.String("model", c.model),
		zap.Duration("took", time.Since(start)),
		zap.Int("completionTokens", resp.Usage.CompletionTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// OfflineReplyGenerator is used when no API key is configured; every call fails
// so the session falls back to the fixed per-role lines.
type OfflineReplyGenerator struct{}

func (OfflineReplyGenerator) GenerateReply(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: %w", ErrUpstream, ErrNotConfigured)
}
