package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	infra "github.com/jerusan/FinSight/internal/infra/bigquery"
	"github.com/jerusan/FinSight/internal/pipeline"
)

// MockExtractor is a mock implementation of StatementExtractor for testing.
type MockExtractor struct {
	ExtractStatementFunc func(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error)
}

func (m *MockExtractor) ExtractStatement(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error) {
	if m.ExtractStatementFunc != nil {
		return m.ExtractStatementFunc(ctx, pdfBytes)
	}
	return map[string]interface{}{"transactions": []interface{}{}}, nil
}

// recordingAudit wraps the no-op repository and records state transitions.
type recordingAudit struct {
	infra.NoopAuditRepository
	startedRuns  int
	failedRuns   int
	succeeded    int
	flaggedCount int
	periodStart  civil.Date
	periodSet    bool
}

func (r *recordingAudit) StartExtractionRun(ctx context.Context, documentID string) (string, error) {
	r.startedRuns++
	return "run-1", nil
}

func (r *recordingAudit) MarkExtractionRunFailed(ctx context.Context, runID string, extractErr error) {
	r.failedRuns++
}

func (r *recordingAudit) MarkExtractionRunSucceeded(ctx context.Context, runID string, flaggedCount int) error {
	r.succeeded++
	r.flaggedCount = flaggedCount
	return nil
}

func (r *recordingAudit) SetDocumentPeriod(ctx context.Context, documentID string, start, end civil.Date) error {
	r.periodSet = true
	r.periodStart = start
	return nil
}

func TestProcessor_Process(t *testing.T) {
	extractor := &MockExtractor{
		ExtractStatementFunc: func(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error) {
			return map[string]interface{}{
				"account_number":  "12345678",
				"period_start":    "01/01/2024",
				"period_end":      "31/01/2024",
				"opening_balance": 100.0,
				"closing_balance": 90.0,
				"currency":        "GBP",
				"transactions": []interface{}{
					map[string]interface{}{
						"date":        "02/01/2024",
						"description": "Card payment",
						"credit":      nil,
						"debit":       20.0,
						"balance":     90.0, // expected 80: one discrepancy
					},
				},
			}, nil
		},
	}

	audit := &recordingAudit{}
	p := pipeline.NewProcessor(extractor, audit, zerolog.Nop())

	resp, err := p.Process(context.Background(), "statement.pdf", []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if resp.Summary.Filename != "statement.pdf" {
		t.Errorf("Filename = %q, want statement.pdf", resp.Summary.Filename)
	}
	if resp.Summary.PeriodStart != "2024-01-01" {
		t.Errorf("PeriodStart = %q, want normalized 2024-01-01", resp.Summary.PeriodStart)
	}
	if len(resp.Flagged) != 1 {
		t.Fatalf("got %d flags, want 1: %+v", len(resp.Flagged), resp.Flagged)
	}
	if resp.Flagged[0].Index != 0 {
		t.Errorf("flag index = %d, want 0", resp.Flagged[0].Index)
	}

	if audit.startedRuns != 1 || audit.succeeded != 1 || audit.failedRuns != 0 {
		t.Errorf("audit transitions = started %d / succeeded %d / failed %d, want 1/1/0",
			audit.startedRuns, audit.succeeded, audit.failedRuns)
	}
	if audit.flaggedCount != 1 {
		t.Errorf("recorded flagged count = %d, want 1", audit.flaggedCount)
	}
	if !audit.periodSet {
		t.Error("statement period was not recorded despite parseable dates")
	}
}

func TestProcessor_Process_ExtractionFailure(t *testing.T) {
	extractor := &MockExtractor{
		ExtractStatementFunc: func(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error) {
			return nil, errors.New("model unavailable")
		},
	}

	audit := &recordingAudit{}
	p := pipeline.NewProcessor(extractor, audit, zerolog.Nop())

	_, err := p.Process(context.Background(), "statement.pdf", []byte("%PDF"))
	if err == nil {
		t.Fatal("expected error when extraction fails")
	}
	if audit.failedRuns != 1 {
		t.Errorf("failed runs = %d, want 1", audit.failedRuns)
	}
	if audit.succeeded != 0 {
		t.Errorf("succeeded runs = %d, want 0", audit.succeeded)
	}
}

func TestProcessor_Process_MalformedModelOutput(t *testing.T) {
	extractor := &MockExtractor{
		ExtractStatementFunc: func(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error) {
			return map[string]interface{}{
				"transactions": "not an array",
			}, nil
		},
	}

	audit := &recordingAudit{}
	p := pipeline.NewProcessor(extractor, audit, zerolog.Nop())

	_, err := p.Process(context.Background(), "statement.pdf", []byte("%PDF"))
	if err == nil {
		t.Fatal("expected error for malformed model output")
	}
	if audit.failedRuns != 1 {
		t.Errorf("failed runs = %d, want 1", audit.failedRuns)
	}
}

func TestProcessor_Process_MissingAnchorsShortCircuit(t *testing.T) {
	extractor := &MockExtractor{
		ExtractStatementFunc: func(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error) {
			return map[string]interface{}{
				"opening_balance": nil,
				"closing_balance": 100.0,
				"transactions": []interface{}{
					map[string]interface{}{
						"date":        "2024-01-02",
						"description": "anything",
						"credit":      10.0,
						"debit":       nil,
						"balance":     42.0,
					},
				},
			}, nil
		},
	}

	p := pipeline.NewProcessor(extractor, &recordingAudit{}, zerolog.Nop())

	resp, err := p.Process(context.Background(), "statement.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(resp.Flagged) != 0 {
		t.Errorf("expected short-circuit empty flags without anchors, got %+v", resp.Flagged)
	}
}
