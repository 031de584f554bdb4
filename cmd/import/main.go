package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopvine/shopvine/internal/config"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/shopvine/shopvine/internal/logger"
	"github.com/shopvine/shopvine/internal/repository"
	"github.com/shopvine/shopvine/internal/service"
)

// CSV import CLI: reads a post export file and runs it through the same
// import pipeline the API uses, against the same database.
func main() {
	filePath := flag.String("file", "", "path to CSV file to import")
	workspaceID := flag.String("workspace", "", "workspace ID to import into")
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if *filePath == "" || *workspaceID == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file posts.csv -workspace <workspace-id> [-config config.yaml]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Format = "text"
	log := logger.New(logCfg)
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	workspaceRepo := repository.NewWorkspaceRepository(db)
	if _, err := workspaceRepo.GetByID(context.Background(), *workspaceID); err != nil {
		log.WithError(err).Fatal("Workspace not found")
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open CSV file")
	}
	rows, err := service.ParseCSVRows(file)
	file.Close()
	if err != nil {
		log.WithError(err).Fatal("Failed to parse CSV file")
	}
	log.WithField("rows", len(rows)).Info("Parsed CSV file")

	imports := service.NewImportService(
		repository.NewPostRepository(db),
		repository.NewRightsRequestRepository(db),
		repository.NewImportLogRepository(db),
		nil,
		log,
		&service.ImportOptions{
			ProgressInterval: cfg.Import.ProgressInterval,
			ErrorCap:         cfg.Import.ErrorCap,
			StepTimeout:      cfg.Import.StepTimeout,
		},
	)

	// Ctrl-C finalizes the run with whatever has been processed so far
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := imports.Run(ctx, *workspaceID, domain.ImportSourceCSV, rows)
	if err != nil {
		log.WithError(err).Fatal("Import failed")
	}

	run := result.Run
	log.WithFields(logger.Fields{
		"run_id":   run.ID,
		"status":   string(run.Status),
		"total":    run.TotalItems,
		"imported": run.Succeeded,
		"failed":   run.Failed,
		"skipped":  run.Skipped,
	}).Info("Import finished")

	for _, rowErr := range result.RowErrors {
		log.WithFields(logger.Fields{
			"row":    rowErr.Row,
			"fields": rowErr.Fields,
		}).Warn(rowErr.Message)
	}

	if run.Status == domain.RunStatusFailed {
		os.Exit(1)
	}
}
