// Package analysis generates the financial-health report for a finalized
// statement. The heavy lifting is delegated to the model; this package owns
// the prompt, the response schema, and turning the model's text back into a
// typed result.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jerusan/FinSight/internal/domain"
)

// DefaultModelName is the default Gemini model used for analysis.
const DefaultModelName = "gemini-2.5-flash"

// Insighter produces a financial-health analysis from a finalized statement.
// Interface so handlers can be tested without a live model.
type Insighter interface {
	GenerateInsights(ctx context.Context, req domain.FinalizedStatementRequest) (*domain.AnalysisResult, error)
}

// Analyzer is the Gemini-backed Insighter.
type Analyzer struct {
	model string
}

// NewAnalyzer creates an Analyzer using the given model name (empty selects
// DefaultModelName).
func NewAnalyzer(model string) *Analyzer {
	if model == "" {
		model = DefaultModelName
	}
	return &Analyzer{model: model}
}

// GenerateInsights sends the finalized statement to the model and returns
// the structured analysis. A malformed model response is an error; nothing
// is guessed on the caller's behalf.
func (a *Analyzer) GenerateInsights(ctx context.Context, req domain.FinalizedStatementRequest) (*domain.AnalysisResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("GenerateInsights: marshaling statement: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("GenerateInsights: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: insightsPrompt()},
				{Text: string(payload)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("GenerateInsights: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("GenerateInsights: empty response from model")
	}

	clean := cleanAnalysisJSON(rawText)

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, fmt.Errorf("GenerateInsights: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	return &result, nil
}

// cleanAnalysisJSON strips Markdown fences and surrounding prose, keeping
// the outermost JSON object.
func cleanAnalysisJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
