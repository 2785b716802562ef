package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/latestcomment/courtroom-game/internal/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Transcriber turns recorded speech into text. An empty transcript means no
// speech was detected and is not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type OpenAITranscriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAITranscriber(cfg *config.Config, logger *zap.Logger) *OpenAITranscriber {
	return &OpenAITranscriber{
		client: newOpenAIClient(cfg),
		model:  cfg.TranscribeModel,
		logger: logger.Named("Transcriber"),
	}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "recording.webm"
	}
	start := time.Now()
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       t.model,
		FilePath:    filename,
		Reader:      audio,
		Temperature: 0,
		Language:    "en",
		Format:      openai.AudioResponseFormatJSON,
	})
	aiRequestDuration.WithLabelValues("transcription").Observe(time.Since(start).Seconds())
	if err != nil {
		aiRequestsTotal.WithLabelValues("transcription", "error").Inc()
		t.logger.Warn("transcription failed", zap.Int("status", statusOf(err)), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	aiRequestsTotal.WithLabelValues("transcription", "success").Inc()
	return strings.TrimSpace(resp.Text), nil
}
