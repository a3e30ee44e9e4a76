// Package bigquery records extraction activity (documents and extraction
// runs) in a BigQuery audit dataset. The store is observational only: the
// processing pipeline works the same when it is not configured, via the
// no-op repository.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

const (
	documentsTable      = "documents"
	extractionRunsTable = "extraction_runs"

	extractorType = "GEMINI_VISION"
)

// AuditRepository is the interface the pipeline uses to record extraction
// activity. MarkExtractionRunFailed deliberately returns nothing: audit
// bookkeeping must never mask the original extraction error.
type AuditRepository interface {
	InsertDocument(ctx context.Context, row *DocumentRow) error
	SetDocumentPeriod(ctx context.Context, documentID string, start, end civil.Date) error
	StartExtractionRun(ctx context.Context, documentID string) (string, error)
	MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error)
	MarkExtractionRunSucceeded(ctx context.Context, runID string, flaggedCount int) error
	ListRecentDocuments(ctx context.Context, limit int) ([]*DocumentRow, error)
	Close() error
}

// BigQueryAuditRepository is the concrete AuditRepository backed by BigQuery.
// It holds a shared client to avoid a new connection per operation.
type BigQueryAuditRepository struct {
	client  *bigquery.Client
	dataset string
	log     zerolog.Logger
}

// NewBigQueryAuditRepository creates an audit repository for the given
// project and dataset.
func NewBigQueryAuditRepository(ctx context.Context, projectID, dataset string, log zerolog.Logger) (*BigQueryAuditRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryAuditRepository: creating client: %w", err)
	}
	return &BigQueryAuditRepository{
		client:  client,
		dataset: dataset,
		log:     log,
	}, nil
}

// Close releases the underlying client connection.
func (r *BigQueryAuditRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// InsertDocument inserts a row into the documents table.
func (r *BigQueryAuditRepository) InsertDocument(ctx context.Context, row *DocumentRow) error {
	inserter := r.client.Dataset(r.dataset).Table(documentsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertDocument: inserting row: %w", err)
	}
	return nil
}

// SetDocumentPeriod fills in the statement period once extraction has
// produced parseable dates.
func (r *BigQueryAuditRepository) SetDocumentPeriod(ctx context.Context, documentID string, start, end civil.Date) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET statement_start_date = @start_date,
		    statement_end_date = @end_date
		WHERE document_id = @document_id
	`, r.dataset, documentsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "start_date", Value: start},
		{Name: "end_date", Value: end},
		{Name: "document_id", Value: documentID},
	}

	if err := r.runAndWait(ctx, q); err != nil {
		return fmt.Errorf("SetDocumentPeriod: %w", err)
	}
	return nil
}

// StartExtractionRun creates an extraction_runs row with status=RUNNING and
// returns its ID.
func (r *BigQueryAuditRepository) StartExtractionRun(ctx context.Context, documentID string) (string, error) {
	runID := uuid.NewString()

	q := r.client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			extraction_run_id,
			document_id,
			started_ts,
			extractor_type,
			extractor_version,
			status
		)
		VALUES (
			@extraction_run_id,
			@document_id,
			@started_ts,
			@extractor_type,
			@extractor_version,
			@status
		)
	`, r.dataset, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "extraction_run_id", Value: runID},
		{Name: "document_id", Value: documentID},
		{Name: "started_ts", Value: time.Now()},
		{Name: "extractor_type", Value: extractorType},
		{Name: "extractor_version", Value: "v1"},
		{Name: "status", Value: "RUNNING"},
	}

	if err := r.runAndWait(ctx, q); err != nil {
		return "", fmt.Errorf("StartExtractionRun: %w", err)
	}
	return runID, nil
}

// MarkExtractionRunFailed updates an extraction_runs row to status=FAILED.
// Errors are logged, not returned, so they cannot mask the extraction error.
func (r *BigQueryAuditRepository) MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error) {
	errMsg := ""
	if extractErr != nil {
		errMsg = extractErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE extraction_run_id = @extraction_run_id
	`, r.dataset, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "extraction_run_id", Value: runID},
	}

	if err := r.runAndWait(ctx, q); err != nil {
		r.log.Error().Err(err).Str("extraction_run_id", runID).Msg("Failed to mark extraction run as failed")
	}
}

// MarkExtractionRunSucceeded updates an extraction_runs row to status=SUCCESS
// and records how many discrepancies reconciliation found.
func (r *BigQueryAuditRepository) MarkExtractionRunSucceeded(ctx context.Context, runID string, flaggedCount int) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    flagged_count = @flagged_count
		WHERE extraction_run_id = @extraction_run_id
	`, r.dataset, extractionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "flagged_count", Value: int64(flaggedCount)},
		{Name: "extraction_run_id", Value: runID},
	}

	if err := r.runAndWait(ctx, q); err != nil {
		return fmt.Errorf("MarkExtractionRunSucceeded: %w", err)
	}
	return nil
}

// ListRecentDocuments returns the most recently uploaded documents.
func (r *BigQueryAuditRepository) ListRecentDocuments(ctx context.Context, limit int) ([]*DocumentRow, error) {
	if limit <= 0 {
		limit = 50
	}

	q := r.client.Query(fmt.Sprintf(`
		SELECT *
		FROM %s.%s
		ORDER BY upload_ts DESC
		LIMIT @limit
	`, r.dataset, documentsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: int64(limit)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecentDocuments: running query: %w", err)
	}

	var rows []*DocumentRow
	for {
		var row DocumentRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecentDocuments: reading row: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}

// runAndWait runs a query job and waits for it to finish.
func (r *BigQueryAuditRepository) runAndWait(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}

var _ AuditRepository = (*BigQueryAuditRepository)(nil)
