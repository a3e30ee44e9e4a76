package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jerusan/FinSight/internal/domain"
)

// Service ties the session registry to an agent.
type Service struct {
	registry *Registry
	agent    Agent
	log      zerolog.Logger
}

// NewService creates a chat service.
func NewService(registry *Registry, agent Agent, log zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		agent:    agent,
		log:      log.With().Str("component", "chat").Logger(),
	}
}

// StartSession opens a conversation about the given statement and returns
// its session ID.
func (s *Service) StartSession(stmt domain.BankStatement) string {
	session := s.registry.Create(stmt)
	s.log.Info().
		Str("session_id", session.ID).
		Str("filename", stmt.Filename).
		Msg("chat session created")
	return session.ID
}

// Ask answers a question within an existing session and records the
// exchange. Returns ErrSessionNotFound or ErrSessionExpired for dead
// sessions.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (string, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("Ask: %w", err)
	}

	answer, err := s.agent.Answer(ctx, session.Statement, session.History, question)
	if err != nil {
		return "", fmt.Errorf("Ask: %w", err)
	}

	s.registry.AppendExchange(sessionID, question, answer)
	return answer, nil
}

// EndSession discards a session.
func (s *Service) EndSession(sessionID string) {
	s.registry.Delete(sessionID)
}
