package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/imcgaunn/to-webp/cache"
	"github.com/imcgaunn/to-webp/config"
	"github.com/imcgaunn/to-webp/database"
	"github.com/imcgaunn/to-webp/kafka"
	"github.com/imcgaunn/to-webp/repository"
	"github.com/imcgaunn/to-webp/service"
)

// connectSinks connects every configured sink. A sink that cannot be reached
// is logged and left out; the batch runs either way.
func connectSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Sinks, func()) {
	var (
		sinks   service.Sinks
		closers []func()
	)

	if cfg.RedisAddr != "" {
		rdb, err := database.ConnectCache(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("Failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			sinks.Cache = cache.NewStatusCache(rdb, cfg.StatusTTL)
			closers = append(closers, func() { rdb.Close() })
			logger.Info("Publishing status to redis", zap.String("addr", cfg.RedisAddr))
		}
	}

	if cfg.DatabaseURL != "" {
		db, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to connect to postgres", zap.Error(err))
		} else {
			repo := repository.NewPostgresRepo(db)
			if err := repo.EnsureSchema(ctx); err != nil {
				logger.Error("Failed to create schema", zap.Error(err))
				db.Close()
			} else {
				sinks.Repo = repo
				closers = append(closers, db.Close)
				logger.Info("Recording outcomes to postgres")
			}
		}
	}

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.Error("Failed to create kafka producer", zap.Strings("brokers", brokers), zap.Error(err))
		} else {
			sinks.Producer = producer
			sinks.Topic = cfg.KafkaTopic
			closers = append(closers, func() {
				if err := producer.Close(); err != nil {
					logger.Warn("Failed to close kafka producer", zap.Error(err))
				}
			})
			logger.Info("Publishing outcomes to kafka",
				zap.Strings("brokers", brokers),
				zap.String("topic", cfg.KafkaTopic),
			)
		}
	}

	return sinks, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
