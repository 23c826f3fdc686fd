package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorbay/config"
	"tutorbay/internal/database"
	"tutorbay/internal/router"
	"tutorbay/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.LogLvl); err != nil {
		log.Fatalf("logger: %v", err)
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		zap.L().Fatal("database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zap.L().Fatal("migrate", zap.Error(err))
	}

	engine := router.Setup(cfg, db, nil)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zap.L().Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("listen", zap.Error(err))
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Fatal("server shutdown", zap.Error(err))
	}
	zap.L().Info("server stopped")
}
