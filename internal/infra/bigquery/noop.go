package bigquery

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// NoopAuditRepository satisfies AuditRepository without recording anything.
// Used when no BigQuery project is configured, and in tests.
type NoopAuditRepository struct{}

func NewNoopAuditRepository() *NoopAuditRepository { return &NoopAuditRepository{} }

func (*NoopAuditRepository) InsertDocument(ctx context.Context, row *DocumentRow) error { return nil }

func (*NoopAuditRepository) SetDocumentPeriod(ctx context.Context, documentID string, start, end civil.Date) error {
	return nil
}

func (*NoopAuditRepository) StartExtractionRun(ctx context.Context, documentID string) (string, error) {
	return uuid.NewString(), nil
}

func (*NoopAuditRepository) MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error) {
}

func (*NoopAuditRepository) MarkExtractionRunSucceeded(ctx context.Context, runID string, flaggedCount int) error {
	return nil
}

func (*NoopAuditRepository) ListRecentDocuments(ctx context.Context, limit int) ([]*DocumentRow, error) {
	return []*DocumentRow{}, nil
}

func (*NoopAuditRepository) Close() error { return nil }

var _ AuditRepository = (*NoopAuditRepository)(nil)
