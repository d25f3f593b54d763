package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/minute/config"
	"github.com/bnema/minute/internal/adapter/extractor/ffmpeg"
	HTTPAdapter "github.com/bnema/minute/internal/adapter/http"
	"github.com/bnema/minute/internal/adapter/objectstore/gcs"
	"github.com/bnema/minute/internal/adapter/recognizer/google"
	"github.com/bnema/minute/internal/adapter/storage/memory"
	"github.com/bnema/minute/internal/infrastructure/logger"
	"github.com/bnema/minute/internal/service"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info.Printf("starting minute on port %d, bucket=%s, project=%s",
		cfg.Port, cfg.GCSBucketName, cfg.GoogleProjectID)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error.Printf("failed to create data directory: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	objects, err := gcs.NewStore(ctx, cfg.GCSBucketName)
	if err != nil {
		logger.Error.Printf("failed to create object store: %v", err)
		os.Exit(1)
	}
	defer func() { _ = objects.Close() }()

	recognizer, err := google.NewRecognizer(ctx, cfg.GoogleProjectID, cfg.SpeechLocation, cfg.SpeechEndpoint)
	if err != nil {
		logger.Error.Printf("failed to create recognizer: %v", err)
		os.Exit(1)
	}
	defer func() { _ = recognizer.Close() }()

	jobStore := memory.NewJobStore()
	extractor := ffmpeg.NewExtractor()
	transcriber := service.NewRemoteTranscriber(objects, recognizer, cfg.PollInterval, cfg.MaxWait)
	svc := service.NewTranscriptionService(jobStore, extractor, transcriber, cfg.DataDir)

	server := HTTPAdapter.NewServer(svc, cfg.MaxUploadSizeMB, cfg.DefaultLanguage, version)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown: stop accepting requests, then drain in-flight
	// pipelines. Jobs are in-memory only, so whatever misses the deadline
	// is gone.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info.Printf("received %s, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("http shutdown error: %v", err)
		}

		if err := svc.Drain(shutdownCtx); err != nil {
			logger.Warn.Printf("shutdown with pipelines still running: %v", err)
		}

		logger.Info.Printf("shutdown complete")
	}()

	logger.Info.Printf("server listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error.Printf("server failed: %v", err)
		os.Exit(1)
	}
}
