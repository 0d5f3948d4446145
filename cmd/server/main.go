package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/api"
	"github.com/vytor/neuroprofile/internal/config"
	"github.com/vytor/neuroprofile/internal/db"
	"github.com/vytor/neuroprofile/internal/jobs"
	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/repository/sqlite"
	"github.com/vytor/neuroprofile/internal/services"
	"github.com/vytor/neuroprofile/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("neuroprofile server starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("analysis_worker_count=%d", cfg.AnalysisWorkerCount)
	log.Debug("analysis_queue_size=%d", cfg.AnalysisQueueSize)
	log.Debug("epoch_workers=%d", cfg.EpochWorkers)
	log.Debug("sampling_rate=%v window_seconds=%v", cfg.SamplingRate, cfg.WindowSeconds)
	log.Debug("channel_noise_fraction=%v threshold=%v power_ceiling=%v",
		cfg.ChannelNoiseFraction, cfg.ClassificationThreshold, cfg.ArtifactPowerCeiling)

	processor, err := analysis.NewProcessor(cfg.Pipeline())
	if err != nil {
		log.Error("invalid pipeline configuration: %v", err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	sessionRepo := sqlite.NewSessionRepository(database.DB)
	epochRepo := sqlite.NewEpochResultRepository(database.DB)

	// Jobs queued by a previous process died with it.
	if n, err := sessionRepo.MarkInterrupted(context.Background()); err != nil {
		log.Warn("failed to mark interrupted sessions: %v", err)
	} else if n > 0 {
		log.Warn("marked %d interrupted session(s) as failed", n)
	}

	analysisPool := worker.NewPool(cfg.AnalysisWorkerCount, cfg.AnalysisQueueSize)
	queue := jobs.NewWorkerQueue(analysisPool)
	analysisService := services.NewAnalysisService(sessionRepo, epochRepo, processor, queue)
	queue.Bind(analysisService)

	srv := &api.Server{
		AnalysisService: analysisService,
		SessionService:  services.NewSessionService(sessionRepo, epochRepo),
		Database:        database,
		AnalysisPool:    analysisPool,
		MaxUploadBytes:  int64(cfg.MaxUploadMB) << 20,
	}

	ctx, cancel := context.WithCancel(context.Background())
	analysisPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping analysis pool")
	cancel()
	analysisPool.Stop()

	log.Info("===========================================")
	log.Info("neuroprofile server stopped")
	log.Info("===========================================")
}
