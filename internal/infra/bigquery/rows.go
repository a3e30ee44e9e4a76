package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// DocumentRow is one uploaded statement document in the audit dataset.
type DocumentRow struct {
	DocumentID string `bigquery:"document_id"` // REQUIRED
	GCSURI     string `bigquery:"gcs_uri"`     // NULLABLE

	DocumentType string `bigquery:"document_type"` // REQUIRED

	StatementStartDate bigquery.NullDate `bigquery:"statement_start_date"` // NULLABLE
	StatementEndDate   bigquery.NullDate `bigquery:"statement_end_date"`   // NULLABLE

	UploadTS    time.Time              `bigquery:"upload_ts"`    // REQUIRED
	ProcessedTS bigquery.NullTimestamp `bigquery:"processed_ts"` // NULLABLE

	OriginalFilename string `bigquery:"original_filename"` // NULLABLE
	FileMimeType     string `bigquery:"file_mime_type"`    // NULLABLE
}

// ExtractionRunRow is one attempt to extract a document with the model.
type ExtractionRunRow struct {
	ExtractionRunID string `bigquery:"extraction_run_id"`
	DocumentID      string `bigquery:"document_id"`

	StartedTS  time.Time              `bigquery:"started_ts"`
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"`

	ExtractorType    string `bigquery:"extractor_type"`    // e.g. GEMINI_VISION
	ExtractorVersion string `bigquery:"extractor_version"` // e.g. v1

	Status       string `bigquery:"status"`
	ErrorMessage string `bigquery:"error_message"`

	// Discrepancy count found by reconciliation, NULL until the run finishes.
	FlaggedCount bigquery.NullInt64 `bigquery:"flagged_count"`
}
