package main

import (
	"context"
	"time"

	"oficina/internal/config"
	"oficina/internal/database"
	"oficina/internal/logger"
	"oficina/internal/repository"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cleared, err := repository.NewUserRepository(db).ClearExpiredResetTokens(ctx, time.Now())
	if err != nil {
		log.Fatal("cleanup reset tokens failed", zap.Error(err))
	}

	log.Info("auth cleanup completed", zap.Int64("reset_tokens", cleared))
}
