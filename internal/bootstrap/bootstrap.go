package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/evidence"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/notify"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/queue"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/store"
)

// OpenStore builds the record store selected by STORE_DRIVER. db is only
// used by the postgres driver.
func OpenStore(cfg *config.Config, db *gorm.DB) (store.Store, error) {
	switch cfg.StoreDriver {
	case "", "file":
		return store.NewFileStore(cfg.ReportsDir)
	case "bolt":
		return store.NewBoltStore(cfg.BoltPath)
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres store requires a database connection")
		}
		return store.NewGormStore(db)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// OpenEvidence builds the evidence storage selected by EVIDENCE_DRIVER.
// Local evidence sits next to the report documents.
func OpenEvidence(ctx context.Context, cfg *config.Config) (evidence.Storage, error) {
	switch cfg.EvidenceDriver {
	case "", "local":
		return evidence.NewLocalStorage(cfg.ReportsDir)
	case "minio", "s3":
		s, err := evidence.NewMinioStorage(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown EVIDENCE_DRIVER %q", cfg.EvidenceDriver)
	}
}

func Limits(cfg *config.Config) evidence.Limits {
	return evidence.Limits{
		MaxFiles:    cfg.UploadMaxFiles,
		MaxBytes:    cfg.UploadMaxBytes,
		AllowedExts: cfg.UploadAllowedExts,
	}
}

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewDispatcher returns the asynq dispatcher when Redis is configured and a
// no-op otherwise. The returned func releases the queue client.
func NewDispatcher(cfg *config.Config) (queue.Dispatcher, func() error) {
	if cfg.RedisAddr == "" {
		slog.Info("REDIS_ADDR not set, background jobs disabled")
		return queue.NoopDispatcher{}, func() error { return nil }
	}
	client := asynq.NewClient(RedisOpt(cfg))
	slog.Info("background jobs enabled", "redis", cfg.RedisAddr)
	return queue.NewAsynqDispatcher(client), client.Close
}

// NewSender falls back to logging when Telegram is not configured or the
// bot cannot be reached.
func NewSender(cfg *config.Config) notify.Sender {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return notify.LogSender{}
	}
	sender, err := notify.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		slog.Error("telegram notifier unavailable, logging notifications instead", "error", err)
		return notify.LogSender{}
	}
	return sender
}
