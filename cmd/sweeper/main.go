package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ihor-metko/RSP-sub015/internal/config"
	"github.com/ihor-metko/RSP-sub015/internal/database"
	"github.com/ihor-metko/RSP-sub015/internal/events"
	"github.com/ihor-metko/RSP-sub015/internal/modules/lifecycle"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/logger"
	"github.com/ihor-metko/RSP-sub015/internal/repository"
)

// One-shot lifecycle sweep for cron or a scheduled job, equivalent to
// hitting POST /internal/lifecycle/sweep.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat, "sweeper")
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}

	var emitter events.Emitter = events.NewLogEmitter(zlog)
	if cfg.AMQPURL != "" {
		amqpEmitter, err := events.NewAMQPEmitter(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			zlog.Warn("amqp connect failed, falling back to log emitter", zap.Error(err))
		} else {
			defer func() { _ = amqpEmitter.Close() }()
			emitter = amqpEmitter
		}
	}

	svc := lifecycle.NewService(repository.NewReservationRepository(db), emitter, zlog)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := svc.Run(ctx)
	if err != nil {
		zlog.Fatal("sweep failed", zap.Error(err))
	}
	zlog.Info("sweep done",
		zap.Int("cancelled", result.CancelledCount),
		zap.Int("completed", result.CompletedCount),
	)
}
