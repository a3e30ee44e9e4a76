package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jerusan/FinSight/internal/analysis"
	"github.com/jerusan/FinSight/internal/api/handlers"
	"github.com/jerusan/FinSight/internal/api/middleware"
	"github.com/jerusan/FinSight/internal/chat"
	"github.com/jerusan/FinSight/internal/config"
	"github.com/jerusan/FinSight/internal/gcs"
	infraBQ "github.com/jerusan/FinSight/internal/infra/bigquery"
	"github.com/jerusan/FinSight/internal/jobs"
	"github.com/jerusan/FinSight/internal/jobs/inmemory"
	"github.com/jerusan/FinSight/internal/logger"
	"github.com/jerusan/FinSight/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	if cfg.GCSBucket == "" {
		log.Warn().Msg("No GCS bucket configured - uploads will not be archived")
	}

	ctx := context.Background()

	// The audit trail is optional: without a BigQuery project the service
	// runs with the no-op repository.
	var audit infraBQ.AuditRepository = &infraBQ.NoopAuditRepository{}
	if cfg.BigQueryProject != "" {
		bqAudit, err := infraBQ.NewBigQueryAuditRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create audit repository")
		}
		defer bqAudit.Close()
		audit = bqAudit
	} else {
		log.Warn().Msg("No BigQuery project configured - audit trail disabled")
	}

	storage := gcs.NewGCSStorageService()
	extractor := pipeline.NewGeminiExtractor(cfg.GeminiModel)
	processor := pipeline.NewProcessor(extractor, audit, log)
	insighter := analysis.NewAnalyzer(cfg.GeminiModel)

	// Chat sessions, cleaned up in the background.
	registry := chat.NewRegistry(cfg.SessionTTL)
	chatSvc := chat.NewService(registry, chat.NewGeminiAgent(cfg.GeminiModel), log)

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(cfg.SessionTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if removed := registry.CleanupExpired(); removed > 0 {
					log.Info().Int("removed", removed).Msg("Expired chat sessions cleaned up")
				}
			}
		}
	}()

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	retry := jobs.LinearBackoff(cfg.JobMaxRetries, time.Second)
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.QueueWorkers, jobStore, retry)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		extractJob, ok := job.(*jobs.ExtractStatementJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", extractJob.JobID).
			Str("gcs_uri", extractJob.GCSURI).
			Msg("Processing extraction job")

		pdfBytes, err := storage.FetchFromGCS(ctx, extractJob.GCSURI)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", extractJob.GCSURI, err)
		}

		filename := gcs.ExtractFilenameFromGCSURI(extractJob.GCSURI)
		result, err := processor.Process(ctx, filename, pdfBytes)
		if err != nil {
			return err
		}

		log.Info().
			Str("job_id", extractJob.JobID).
			Int("flagged", len(result.Flagged)).
			Msg("Extraction job completed")
		return nil
	}

	go func() {
		log.Info().Msg("Starting job workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job workers stopped with error")
		}
	}()

	// Initialize handlers
	statementsHandler := handlers.NewStatementsHandler(processor, insighter, chatSvc, storage, cfg.GCSBucket, log)
	chatHandler := handlers.NewChatHandler(chatSvc, log)
	documentsHandler := handlers.NewDocumentsHandler(audit, jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.UploadStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/finalize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.FinalizeStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/chat/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		sessionID := strings.TrimPrefix(r.URL.Path, "/api/chat/")
		if sessionID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Session ID is required")
			return
		}
		chatHandler.Ask(w, r, sessionID)
	})

	mux.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			documentsHandler.ListDocuments(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/documents/parse", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			documentsHandler.EnqueueExtraction(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		switch r.Method {
		case http.MethodGet:
			jobsHandler.GetJob(w, r, jobID)
		case http.MethodDelete:
			jobsHandler.CancelJob(w, r, jobID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", handlers.Health)

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelCleanup()
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
