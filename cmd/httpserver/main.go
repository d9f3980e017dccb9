package main

import (
	"context"
	"errors"
	"fmt"
	"movieapi/cmd/internal/stack"
	"movieapi/favourite"
	"movieapi/httpserver"
	"movieapi/pkg/config"
	"movieapi/pkg/logger"
	"movieapi/pkg/sentry"
	"movieapi/postgres"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatalw("cannot init sentry", "error", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	db, err := stack.OpenDatabase(cfg)
	if err != nil {
		log.Fatalw("cannot open postgres connection", "error", err)
	}

	c, err := stack.NewCatalog(cfg, db, log)
	if err != nil {
		log.Fatalw("cannot open cache backend", "driver", cfg.Cache.Driver, "error", err)
	}
	defer c.Close()

	server := httpserver.Default(cfg)
	server.Addr = fmt.Sprintf(":%d", cfg.Port)
	server.Logger = log.Named("http")
	server.CatalogService = c.Service
	server.CacheStatus = c.Cache
	server.FavouriteService = favourite.NewUsecase(postgres.NewFavouriteRepository(db))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infow("server started", "addr", server.Addr, "cache_driver", cfg.Cache.Driver)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
}
