package pipeline

import (
	"context"
)

// StatementExtractor is an interface for the external document-extraction
// capability. It turns raw PDF bytes into the model's raw JSON output; no
// guarantee of field completeness is made. The interface enables mocking in
// tests without a live model.
type StatementExtractor interface {
	// ExtractStatement sends PDF bytes to the model and returns the parsed
	// JSON output as a generic map.
	ExtractStatement(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error)
}

// GeminiExtractor is the concrete StatementExtractor backed by Gemini.
type GeminiExtractor struct {
	model string
}

// NewGeminiExtractor creates a Gemini-backed extractor using the given model
// name (empty selects DefaultModelName).
func NewGeminiExtractor(model string) *GeminiExtractor {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiExtractor{model: model}
}

// ExtractStatement delegates to extractStatementWithModel.
func (e *GeminiExtractor) ExtractStatement(ctx context.Context, pdfBytes []byte) (map[string]interface{}, error) {
	return extractStatementWithModel(ctx, e.model, pdfBytes)
}
