package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/latestcomment/courtroom-game/internal/config"
	"github.com/latestcomment/courtroom-game/internal/handlers"
	applog "github.com/latestcomment/courtroom-game/internal/logger"
	"github.com/latestcomment/courtroom-game/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zlog, err := applog.New(applog.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, OutputPath: cfg.LogOutput})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	var replies services.ReplyGenerator = services.OfflineReplyGenerator{}
	var transcriber services.Transcriber
	if cfg.AIEnabled() {
		replies = services.NewOpenAIReplyClient(cfg, zlog)
		transcriber = services.NewOpenAITranscriber(cfg, zlog)
	} else {
		zlog.Warn("GROQ_API_KEY is not set; characters will use fallback lines and transcription is disabled")
	}

	var ledger services.Ledger = services.NewLogLedger(zlog)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		ledger = services.NewRedisLedger(rdb, cfg.LedgerStream, zlog)
		zlog.Info("recording verdicts to redis", zap.String("addr", cfg.RedisAddr), zap.String("stream", cfg.LedgerStream))
	}

	defaults := services.SessionOptions{
		ReplyDelay:     cfg.ReplyDelay,
		WitnessChance:  cfg.WitnessChance,
		HumorousChance: cfg.HumorousChance,
		UseFallbacks:   cfg.UseFallbacks,
		LedgerTimeout:  cfg.LedgerTimeout,
	}
	manager := services.NewSessionManager(defaults, replies, ledger, services.NewRandomSource(0), zlog)
	manager.TTL = cfg.SessionTTL

	engine := html.New(cfg.ViewsDir, ".html")
	app := fiber.New(fiber.Config{
		Views:     engine,
		Immutable: true,
	})
	app.Use(logger.New())

	h := handlers.NewHandler(manager)
	api := handlers.NewAPIHandler(manager, transcriber, int64(cfg.TranscribeMaxSize), zlog)
	ws := handlers.NewWebSocketHandler(manager, cfg.AutoAdvance, zlog)
	handlers.Register(app, h, api, ws)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweep(ctx, manager, cfg.SweepInterval)
	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	zlog.Info("courtroom server running", zap.String("addr", cfg.Port))
	if err := app.Listen(cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func sweep(ctx context.Context, manager *services.SessionManager, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			manager.Sweep(now)
		}
	}
}
