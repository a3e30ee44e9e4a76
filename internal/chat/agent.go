package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jerusan/FinSight/internal/domain"
)

// Agent answers a question about a statement, given the conversation so
// far.
type Agent interface {
	Answer(ctx context.Context, stmt domain.BankStatement, history []Turn, question string) (string, error)
}

// GeminiAgent answers questions using the Gemini chat API, grounding every
// conversation in the statement JSON.
type GeminiAgent struct {
	model string
}

// NewGeminiAgent creates an agent using the given model name.
func NewGeminiAgent(model string) *GeminiAgent {
	return &GeminiAgent{model: model}
}

func (a *GeminiAgent) Answer(ctx context.Context, stmt domain.BankStatement, history []Turn, question string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("Answer: failed to create genai client: %w", err)
	}

	priorTurns, err := groundedHistory(stmt, history)
	if err != nil {
		return "", fmt.Errorf("Answer: %w", err)
	}

	session, err := client.Chats.Create(ctx, a.model, nil, priorTurns)
	if err != nil {
		return "", fmt.Errorf("Answer: failed to create chat session: %w", err)
	}

	resp, err := session.SendMessage(ctx, genai.Part{Text: question})
	if err != nil {
		return "", fmt.Errorf("Answer: model call failed: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("Answer: model returned an empty response")
	}
	return answer, nil
}

// groundedHistory builds the model-side conversation: a grounding exchange
// carrying the statement JSON, followed by the turns recorded so far.
func groundedHistory(stmt domain.BankStatement, history []Turn) ([]*genai.Content, error) {
	stmtJSON, err := json.Marshal(stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal statement: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(groundingPrompt(string(stmtJSON)), genai.RoleUser),
		genai.NewContentFromText("Understood. I have the statement and will answer questions about it.", genai.RoleModel),
	}
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	return contents, nil
}
