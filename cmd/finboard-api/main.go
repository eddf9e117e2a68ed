package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finboard/finboard/internal/api"
	"github.com/finboard/finboard/internal/api/uistatic"
	"github.com/finboard/finboard/internal/auth"
	"github.com/finboard/finboard/internal/config"
	"github.com/finboard/finboard/internal/export"
	"github.com/finboard/finboard/internal/observability"
	s3store "github.com/finboard/finboard/internal/storage/s3"
	"github.com/finboard/finboard/internal/store"
	pgstore "github.com/finboard/finboard/internal/store/postgres"
	"github.com/finboard/finboard/internal/store/spreadsheet"
	"github.com/finboard/finboard/internal/translate"
)

func main() {
	cfg, err := config.LoadFromEnv("finboard-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	var dataStore store.Store
	switch {
	case cfg.Store.Enabled():
		db, err := pgstore.Open(context.Background(), pgstore.DBConfig{
			DSN:             cfg.Store.DSN,
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxIdleTime: cfg.Store.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open store db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		dataStore = pgstore.NewStore(db, logger)
	case cfg.Spreadsheet.Enabled():
		dataStore = spreadsheet.NewStore(cfg.Spreadsheet.Dir, logger)
	default:
		logger.Warn("no data source configured, serving degraded responses")
		dataStore = store.NotConfigured{}
	}

	var translator translate.Translator = translate.StubTranslator{}
	if cfg.AI.Enabled() {
		translator, err = translate.NewYandexTranslator(translate.YandexConfig{
			APIKey:      cfg.AI.APIKey,
			FolderID:    cfg.AI.FolderID,
			ModelURI:    cfg.AI.ModelURI,
			Endpoint:    cfg.AI.Endpoint,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout,
		}, translate.DefaultResolvers()...)
		if err != nil {
			logger.Error("failed to initialize translator", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("completion service not configured, using offline stub")
	}

	var archiver api.SnapshotArchiver
	if cfg.Export.ArchiveEnabled {
		objectStore, err := s3store.New(context.Background(), s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		archiver, err = export.NewArchiver(objectStore, cfg.Export, logger)
		if err != nil {
			logger.Error("failed to initialize export archiver", slog.Any("error", err))
			os.Exit(1)
		}
	}

	deps := api.Dependencies{
		Logger:     logger,
		Store:      dataStore,
		Translator: translator,
		Archiver:   archiver,
		UI:         uistatic.Handler(),
		Readiness: api.CombineReadinessChecks(
			api.CheckStoreConfig(cfg),
			api.CheckObjectStoreConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
