package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jerusan/FinSight/internal/analysis"
	"github.com/jerusan/FinSight/internal/api/middleware"
	"github.com/jerusan/FinSight/internal/chat"
	"github.com/jerusan/FinSight/internal/domain"
	"github.com/jerusan/FinSight/internal/gcs"
	infra "github.com/jerusan/FinSight/internal/infra/bigquery"
	"github.com/jerusan/FinSight/internal/jobs"
)

// maxUploadSize caps statement uploads at 25 MiB.
const maxUploadSize = 25 << 20

// StatementProcessor runs the extraction and reconciliation pipeline on an
// uploaded PDF.
type StatementProcessor interface {
	Process(ctx context.Context, filename string, pdfBytes []byte) (*domain.AnalysisResponse, error)
}

// StatementsHandler handles statement upload, finalization and analysis.
type StatementsHandler struct {
	processor StatementProcessor
	insighter analysis.Insighter
	chatSvc   *chat.Service
	storage   gcs.StorageService
	bucket    string
	log       zerolog.Logger
}

// NewStatementsHandler creates a new statements handler. storage and bucket
// may be zero-valued, in which case uploads are processed without being
// archived to GCS.
func NewStatementsHandler(processor StatementProcessor, insighter analysis.Insighter, chatSvc *chat.Service, storage gcs.StorageService, bucket string, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		processor: processor,
		insighter: insighter,
		chatSvc:   chatSvc,
		storage:   storage,
		bucket:    bucket,
		log:       log,
	}
}

// UploadResponse is the upload result: the extracted statement, its
// reconciliation flags and a chat session for follow-up questions.
type UploadResponse struct {
	domain.AnalysisResponse
	SessionID string `json:"session_id"`
}

// UploadStatement handles POST /api/upload.
// It accepts a multipart PDF, runs extraction and reconciliation
// synchronously, and opens a chat session over the result.
func (h *StatementsHandler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "A PDF file is required")
		return
	}
	defer file.Close()

	// Reject non-PDFs before spending a model call on them.
	if !isPDF(header) {
		middleware.WriteError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	pdfBytes, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if len(pdfBytes) > maxUploadSize {
		middleware.WriteError(w, http.StatusBadRequest, "File exceeds the upload size limit")
		return
	}

	filename := filepath.Base(header.Filename)

	h.archive(ctx, filename, pdfBytes)

	result, err := h.processor.Process(ctx, filename, pdfBytes)
	if err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("Statement processing failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to process statement")
		return
	}

	sessionID := h.chatSvc.StartSession(result.Summary)

	middleware.WriteJSON(w, http.StatusOK, UploadResponse{
		AnalysisResponse: *result,
		SessionID:        sessionID,
	})
}

// archive best-effort copies the PDF to GCS. Failures are logged, not
// surfaced: the upload still processes from the in-memory bytes.
func (h *StatementsHandler) archive(ctx context.Context, filename string, pdfBytes []byte) {
	if h.storage == nil || h.bucket == "" {
		return
	}

	objectName := fmt.Sprintf("uploads/%s/%s", time.Now().Format("2006/01/02"), uuid.NewString()+"-"+filename)
	gcsURI, err := h.storage.UploadBytes(ctx, h.bucket, objectName, pdfBytes)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", filename).Msg("Failed to archive PDF to GCS")
		return
	}
	h.log.Info().Str("gcs_uri", gcsURI).Msg("PDF archived")
}

// FinalizeStatement handles POST /api/finalize.
// It takes the user-reviewed statement and returns the financial-health
// analysis.
func (h *StatementsHandler) FinalizeStatement(w http.ResponseWriter, r *http.Request) {
	var req domain.FinalizedStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.insighter.GenerateInsights(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Insights generation failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

func isPDF(header *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return true
	}
	return header.Header.Get("Content-Type") == "application/pdf"
}

// ChatHandler answers follow-up questions within an upload's chat session.
type ChatHandler struct {
	svc *chat.Service
	log zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

// Ask handles POST /api/chat/{sessionID}.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "A question is required")
		return
	}

	answer, err := h.svc.Ask(r.Context(), sessionID, req.Question)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) || errors.Is(err, chat.ErrSessionExpired) {
			middleware.WriteError(w, http.StatusNotFound, "Chat session not found or expired")
			return
		}
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Chat answer failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, domain.ChatResponse{Answer: answer})
}

// DocumentsHandler handles document listing and async extraction.
type DocumentsHandler struct {
	audit     infra.AuditRepository
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(audit infra.AuditRepository, publisher jobs.Publisher, log zerolog.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		audit:     audit,
		publisher: publisher,
		log:       log,
	}
}

// ListDocuments handles GET /api/documents
func (h *DocumentsHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	documents, err := h.audit.ListRecentDocuments(ctx, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list documents")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// EnqueueExtraction handles POST /api/documents/parse
// It queues asynchronous extraction of a PDF already stored in GCS.
func (h *DocumentsHandler) EnqueueExtraction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentID string `json:"document_id"`
		GCSURI     string `json:"gcs_uri"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri is required")
		return
	}
	if _, _, err := gcs.ParseGCSURI(req.GCSURI); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri is not a valid gs:// URI")
		return
	}

	job := &jobs.ExtractStatementJob{
		DocumentID: req.DocumentID,
		GCSURI:     req.GCSURI,
	}

	if err := h.publisher.PublishExtractStatement(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue extraction job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue extraction job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("gcs_uri", req.GCSURI).Msg("Extraction job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":      job.JobID,
		"document_id": req.DocumentID,
		"status":      string(job.Status),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// CancelJob handles DELETE /api/jobs/{id}
func (h *JobsHandler) CancelJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if err := h.store.CancelJob(r.Context(), jobID); err != nil {
		middleware.WriteError(w, http.StatusConflict, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"job_id": jobID,
		"status": string(jobs.JobStatusCancelled),
	})
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		DocumentID: query.Get("document_id"),
		Status:     jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
