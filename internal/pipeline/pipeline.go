// Package pipeline turns an uploaded bank-statement PDF into an extracted,
// reconciled AnalysisResponse. Extraction is delegated to an external
// model; the pipeline normalizes its output into the canonical statement
// record, runs the reconciliation engine over it, and records the attempt in
// the audit store.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jerusan/FinSight/internal/domain"
	infra "github.com/jerusan/FinSight/internal/infra/bigquery"
	"github.com/jerusan/FinSight/internal/reconcile"
)

// Processor runs the extraction pipeline with injected collaborators.
type Processor struct {
	extractor StatementExtractor
	audit     infra.AuditRepository
	log       zerolog.Logger
}

// NewProcessor creates a Processor. audit may be a NoopAuditRepository when
// BigQuery is not configured.
func NewProcessor(extractor StatementExtractor, audit infra.AuditRepository, log zerolog.Logger) *Processor {
	return &Processor{
		extractor: extractor,
		audit:     audit,
		log:       log,
	}
}

// Process extracts and reconciles a single statement PDF.
//
// Any extraction or transformation failure is returned as a wrapped error so
// the caller can surface a distinguishable "processing failed" signal;
// reconciliation discrepancies are NOT errors, they come back inside the
// response. The returned response is a value: safe to hand across goroutines.
func (p *Processor) Process(ctx context.Context, filename string, pdfBytes []byte) (*domain.AnalysisResponse, error) {
	// 1. Record the document.
	documentID := uuid.NewString()
	doc := &infra.DocumentRow{
		DocumentID:       documentID,
		DocumentType:     DefaultDocumentType,
		UploadTS:         time.Now(),
		OriginalFilename: filename,
		FileMimeType:     "application/pdf",
	}
	if err := p.audit.InsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("Process: recording document: %w", err)
	}

	// 2. Start an extraction run (status=RUNNING).
	runID, err := p.audit.StartExtractionRun(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("Process: starting extraction run: %w", err)
	}

	// 3. Call the external extractor with the PDF.
	rawOutput, err := p.extractor.ExtractStatement(ctx, pdfBytes)
	if err != nil {
		p.audit.MarkExtractionRunFailed(ctx, runID, err)
		return nil, fmt.Errorf("Process: extracting statement: %w", err)
	}

	// 4. Transform raw model output into the canonical statement.
	stmt, err := transformModelOutputToStatement(rawOutput)
	if err != nil {
		p.audit.MarkExtractionRunFailed(ctx, runID, err)
		return nil, fmt.Errorf("Process: transforming model output: %w", err)
	}
	stmt.Filename = filename

	// 5. Best-effort date cleanup. Never fatal.
	normalizeStatementDates(stmt, p.log)
	p.recordStatementPeriod(ctx, documentID, stmt)

	// 6. Reconcile the ledger.
	flagged := reconcile.FlagInconsistencies(*stmt)

	p.log.Info().
		Str("document_id", documentID).
		Str("extraction_run_id", runID).
		Int("transactions", len(stmt.Transactions)).
		Int("flagged", len(flagged)).
		Msg("Statement processed")

	// 7. Mark the run as SUCCESS.
	if err := p.audit.MarkExtractionRunSucceeded(ctx, runID, len(flagged)); err != nil {
		return nil, fmt.Errorf("Process: marking extraction run succeeded: %w", err)
	}

	return &domain.AnalysisResponse{
		Summary: *stmt,
		Flagged: flagged,
	}, nil
}

// recordStatementPeriod writes the statement period to the document row when
// both boundary dates normalized cleanly. Audit-only; failures are logged.
func (p *Processor) recordStatementPeriod(ctx context.Context, documentID string, stmt *domain.BankStatement) {
	start, err1 := time.Parse("2006-01-02", stmt.PeriodStart)
	end, err2 := time.Parse("2006-01-02", stmt.PeriodEnd)
	if err1 != nil || err2 != nil {
		return
	}

	if err := p.audit.SetDocumentPeriod(ctx, documentID, civil.DateOf(start), civil.DateOf(end)); err != nil {
		p.log.Warn().Err(err).Str("document_id", documentID).Msg("Failed to record statement period")
	}
}
