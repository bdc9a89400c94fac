package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"DF-CONTRATOS/internal"
	"DF-CONTRATOS/internal/config"
	"DF-CONTRATOS/internal/handlers"
	"DF-CONTRATOS/internal/logger"
	"DF-CONTRATOS/internal/services"
	"DF-CONTRATOS/internal/storage"
	"DF-CONTRATOS/internal/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence
	var (
		db           *gorm.DB
		contractRepo services.ContractRepository = services.NewMemoryContractStore()
		documentRepo services.DocumentRepository = services.NewMemoryDocumentStore()
	)
	if cfg.Database.Driver == config.DriverMySQL {
		if err := internal.InitDB(cfg, log); err != nil {
			return err
		}
		defer internal.CloseDB()
		db = internal.DB
		contractRepo = services.NewGormContractStore(db)
		documentRepo = services.NewGormDocumentStore(db)
	}

	// Object storage: the bucket when configured, the output directory otherwise.
	var gcsClient *storage.GCSClient
	if cfg.GCS.BucketName != "" || strings.HasPrefix(cfg.Template.Path, "gs://") {
		gcsClient, err = storage.NewGCSClient(ctx, cfg.GCS.BucketName, cfg.GCS.CredentialsPath)
		if err != nil {
			return err
		}
		defer gcsClient.Close()
	}

	var objectStore storage.ObjectStore
	var cleanup *handlers.FileCleanupService
	if cfg.GCS.BucketName != "" {
		objectStore = gcsClient
		log.Info("storing documents in GCS", zap.String("bucket", cfg.GCS.BucketName))
	} else {
		local, err := storage.NewLocalStore(cfg.Output.Dir)
		if err != nil {
			return err
		}
		objectStore = local
		cleanup = handlers.NewFileCleanupService(local.BaseDir(), cfg.Output.MaxAge, time.Hour, log)
		cleanup.Start()
		defer cleanup.Stop()
		log.Info("storing documents locally", zap.String("dir", local.BaseDir()))
	}

	var bucketReader templates.BucketReader
	if gcsClient != nil {
		bucketReader = gcsClient
	}
	source, err := templates.Open(cfg.Template.Path, bucketReader, &http.Client{Timeout: 15 * time.Second})
	if err != nil {
		return err
	}

	var exporter services.Exporter = services.NewFPDFExporter()
	if cfg.Gotenberg.URL != "" {
		exporter, err = services.NewGotenbergExporter(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout, cfg.Gotenberg.Retries, log)
		if err != nil {
			return err
		}
		log.Info("exporting PDFs through Gotenberg", zap.String("url", cfg.Gotenberg.URL))
	}

	activityLogs := services.NewActivityLogService(db, log)
	defer activityLogs.Wait()

	router := handlers.NewRouter(handlers.Dependencies{
		Contracts:    services.NewContractService(contractRepo, services.NewContractValidator(), log),
		Documents:    services.NewDocumentService(source, cfg.Layout, exporter, objectStore, documentRepo, log),
		ActivityLogs: activityLogs,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("template", source.Location()),
			zap.String("db_driver", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
