package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/votebox/internal/config"
	"github.com/emilythestrangee/votebox/internal/database"
	"github.com/emilythestrangee/votebox/internal/logger"
	"github.com/emilythestrangee/votebox/internal/server"
	"github.com/emilythestrangee/votebox/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st     store.Store
		health server.HealthChecker
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store; data is lost on exit")
		st = store.NewMemoryStore(cfg.TopicDuration)
	default:
		db, err := database.New(ctx, cfg.DB, log)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize database")
		}
		defer db.Close()
		st = store.NewGormStore(db.GetDB(), cfg.TopicDuration, log)
		health = db
	}

	srv := server.New(cfg, st, health, log).HTTPServer()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}()

	log.WithField("port", cfg.Port).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("server stopped")
		return
	}
	<-done
	log.Info("server stopped")
}
