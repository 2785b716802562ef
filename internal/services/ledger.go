package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Ledger records verdicts outside the session. Writes are best effort and
// never hold up the game.
type Ledger interface {
	RecordVerdict(ctx context.Context, caseID uuid.UUID, outcome models.Outcome, note string) error
	RecordTutorialCompletion(ctx context.Context, player string) error
}

// LogLedger only writes verdicts to the log.
type LogLedger struct {
	logger *zap.Logger
}

func NewLogLedger(logger *zap.Logger) *LogLedger {
	return &LogLedger{logger: logger.Named("Ledger")}
}

func (l *LogLedger) RecordVerdict(_ context.Context, caseID uuid.UUID, outcome models.Outcome, note string) error {
	l.logger.Info("verdict reached",
		zap.String("caseID", caseID.String()),
		zap.String("outcome", string(outcome)),
		zap.String("note", note),
	)
	ledgerWritesTotal.WithLabelValues("log", "success").Inc()
	return nil
}

func (l *LogLedger) RecordTutorialCompletion(_ context.Context, player string) error {
	l.logger.Info("tutorial completed", zap.String("player", player))
	ledgerWritesTotal.WithLabelValues("log", "success").Inc()
	return nil
}

// RedisLedger appends verdict entries to a Redis stream.
type RedisLedger struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

func NewRedisLedger(client *redis.Client, stream string, logger *zap.Logger) *RedisLedger {
	return &RedisLedger{
		client: client,
		stream: stream,
		logger: logger.Named("RedisLedger"),
	}
}

func (l *RedisLedger) RecordVerdict(ctx context.Context, caseID uuid.UUID, outcome models.Outcome, note string) error {
	return l.append(ctx, map[string]interface{}{
		"event":   "reachVerdict",
		"caseId":  caseID.String(),
		"outcome": string(outcome),
		"note":    note,
		"at":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (l *RedisLedger) RecordTutorialCompletion(ctx context.Context, player string) error {
	return l.append(ctx, map[string]interface{}{
		"event":  "completeTutorial",
		"player": player,
		"at":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (l *RedisLedger) append(ctx context.Context, values map[string]interface{}) error {
	id, err := l.client.XAdd(ctx, &redis.XAddArgs{Stream: l.stream, Values: values}).Result()
	if err != nil {
		ledgerWritesTotal.WithLabelValues("redis", "error").Inc()
		return fmt.Errorf("%w: %w", ErrLedgerWrite, err)
	}
	ledgerWritesTotal.WithLabelValues("redis", "success").Inc()
	l.logger.Debug("ledger entry appended", zap.String("stream", l.stream), zap.String("id", id), zap.Any("event", values["event"]))
	return nil
}
