package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopvine/shopvine/internal/api"
	"github.com/shopvine/shopvine/internal/config"
	"github.com/shopvine/shopvine/internal/logger"
	"github.com/shopvine/shopvine/internal/repository"
	"github.com/shopvine/shopvine/internal/service"
	"github.com/shopvine/shopvine/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	if cfg.Server.Mode == "debug" {
		logCfg.Level = "debug"
		logCfg.Format = "text"
	}
	log := logger.New(logCfg)
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	workspaceRepo := repository.NewWorkspaceRepository(db)
	postRepo := repository.NewPostRepository(db)
	rightsRepo := repository.NewRightsRequestRepository(db)
	logRepo := repository.NewImportLogRepository(db)

	if cfg.Bootstrap.APIKey != "" {
		ws, err := workspaceRepo.EnsureBootstrap(context.Background(),
			cfg.Bootstrap.WorkspaceName, cfg.Bootstrap.WorkspaceSlug, cfg.Bootstrap.APIKey)
		if err != nil {
			log.WithError(err).Fatal("Failed to bootstrap workspace")
		}
		log.WithField("workspace_id", ws.ID).Info("Bootstrap workspace ready")
	}

	var media *service.MediaFetcher
	if cfg.Media.Enabled && cfg.Storage.Enabled {
		store, err := storage.NewS3Storage(&storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize object storage")
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			log.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		media = service.NewMediaFetcher(store, &service.MediaFetcherConfig{
			Timeout:  cfg.Media.Timeout,
			MaxBytes: cfg.Media.MaxBytes,
		})
		log.Info("Media fetching enabled")
	}

	imports := service.NewImportService(postRepo, rightsRepo, logRepo, media, log, &service.ImportOptions{
		ProgressInterval: cfg.Import.ProgressInterval,
		ErrorCap:         cfg.Import.ErrorCap,
		StepTimeout:      cfg.Import.StepTimeout,
	})

	router := api.NewRouter(api.RouterDeps{
		Config:     cfg,
		Workspaces: workspaceRepo,
		Posts:      postRepo,
		Rights:     rightsRepo,
		Logs:       logRepo,
		Imports:    imports,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("Server stopped")
}
