package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"moldmes/internal/config"
	"moldmes/internal/handlers"
	"moldmes/internal/importer"
	"moldmes/internal/jobs"
	"moldmes/internal/jobs/background"
	"moldmes/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting moldmes service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	pool, tx, repos, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	cache := openCache(ctx, cfg, logger)

	var archive services.ArchiveService
	var archiver importer.Archiver
	var storageCheck handlers.Checker
	if cfg.MinIO.Endpoint != "" {
		archive, err = services.NewMinioService(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.UseSSL, cfg.MinIO.Bucket)
		if err != nil {
			return fmt.Errorf("failed to initialize MinIO service: %w", err)
		}
		if err := archive.EnsureBucketExists(ctx); err != nil {
			logger.Warn("Import archive bucket unavailable", zap.String("bucket", cfg.MinIO.Bucket), zap.Error(err))
		}
		archiver = archive
		storageCheck = handlers.CheckerFunc(archive.CheckBucket)
	}

	materialSvc := services.NewMaterialService(tx, repos, cache, logger)
	productSvc := services.NewProductService(tx, repos)
	bomSvc := services.NewBOMService(tx, repos)
	inventorySvc := services.NewInventoryService(tx, repos, cache, logger)
	moldSvc := services.NewMoldService(tx, repos)
	taskSvc := services.NewTaskService(tx, repos, logger)
	treeImporter := importer.NewTreeImporter(tx, archiver, cache, logger)

	router := handlers.NewRouter(&handlers.Handlers{
		Molds:     handlers.NewMoldHandlers(moldSvc),
		Materials: handlers.NewMaterialHandlers(materialSvc),
		Products:  handlers.NewProductHandlers(productSvc, bomSvc),
		Imports:   handlers.NewImportHandlers(treeImporter, cfg.Server.MaxImportBytes),
		Inventory: handlers.NewInventoryHandlers(inventorySvc),
		Tasks:     handlers.NewTaskHandlers(taskSvc, inventorySvc),
		Health:    handlers.NewHealthHandlers(pool, cache, storageCheck, Version),
	}, logger)

	if cfg.Jobs.Enabled {
		scheduler, err := background.NewJobScheduler(
			jobs.NewLedgerReconciler(inventorySvc, logger),
			jobs.NewSafetyStockAlertService(inventorySvc, logger),
			background.Intervals{
				Reconcile:   cfg.Jobs.ReconcileInterval.Duration,
				SafetyStock: cfg.Jobs.SafetyStockInterval.Duration,
			},
			logger)
		if err != nil {
			return fmt.Errorf("failed to create job scheduler: %w", err)
		}
		scheduler.Start()
		logger.Info("Background jobs scheduled", zap.Strings("jobs", scheduler.JobNames()))
		// Check the ledger once at startup instead of waiting a full interval.
		if err := scheduler.RunNow(background.JobLedgerReconcile); err != nil {
			logger.Warn("Startup ledger reconcile not queued", zap.Error(err))
		}
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Error("Job scheduler shutdown failed", zap.Error(err))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Server starting", zap.String("addr", addr))
		if err := router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		if err := router.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}
