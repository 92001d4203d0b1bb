package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatbot-evaluation/backend/ai"
	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/repository"
	"chatbot-evaluation/backend/pkg/logger"
)

// Gateway relays a chat turn to the model of a condition
type Gateway interface {
	SendTurn(ctx context.Context, scope ai.ScopeConfig, history []ai.Turn, userMessage string) ai.Result
}

// Exchange is one completed chat turn
type Exchange struct {
	UserMessage *models.ChatMessage `json:"user_message"`
	BotMessage  *models.ChatMessage `json:"bot_message"`
}

// ChatService stores participant messages and relays them to the model
type ChatService struct {
	store   repository.Store
	gateway Gateway
	now     func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(store repository.Store, gateway Gateway) *ChatService {
	return &ChatService{
		store:   store,
		gateway: gateway,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SendEvaluationMessage handles a turn of a single-topic evaluation, whose
// conversation runs under the evaluation's own condition.
func (s *ChatService) SendEvaluationMessage(ctx context.Context, evaluationID uint, text string) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	evaluation, err := s.store.GetEvaluation(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	if evaluation.Ended() {
		return nil, ErrEvaluationEnded
	}

	scope := models.EvaluationScope(evaluation.ID)
	return s.relay(ctx, scope, ai.ScopeFromCondition(evaluation.Condition()), text)
}

// SendChatMessage handles a turn of a chat session. The session's model
// override applies, otherwise the evaluation's model.
func (s *ChatService) SendChatMessage(ctx context.Context, chatSessionID uint, text string) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	session, err := s.store.GetChatSession(ctx, chatSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatSessionNotFound
		}
		return nil, err
	}
	if session.Completed {
		return nil, ErrChatSessionCompleted
	}

	evaluation, err := s.store.GetEvaluation(ctx, session.EvaluationID)
	if err != nil {
		return nil, fmt.Errorf("loading evaluation of chat session %d: %w", session.ID, err)
	}
	if evaluation.Ended() {
		return nil, ErrEvaluationEnded
	}

	scope := models.SessionScope(evaluation.ID, session.ID)
	return s.relay(ctx, scope, ai.ScopeFromCondition(session.Condition(evaluation)), text)
}

// ListSessionMessages returns the ordered transcript of a chat session
func (s *ChatService) ListSessionMessages(ctx context.Context, chatSessionID uint) ([]models.ChatMessage, error) {
	session, err := s.store.GetChatSession(ctx, chatSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatSessionNotFound
		}
		return nil, err
	}
	return s.store.ListMessages(ctx, models.SessionScope(session.EvaluationID, session.ID))
}

// relay persists the participant message, sends it with the stored history
// and persists the reply. On gateway failure the participant message stays
// stored and a *GatewayError is returned.
func (s *ChatService) relay(ctx context.Context, scope models.Scope, cfg ai.ScopeConfig, text string) (*Exchange, error) {
	history, err := s.store.ListMessages(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	userMsg := &models.ChatMessage{
		EvaluationID:  scope.EvaluationID,
		ChatSessionID: scope.ChatSessionID,
		Sender:        models.SenderUser,
		Content:       text,
		CreatedAt:     s.now(),
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("storing participant message: %w", err)
	}

	result := s.gateway.SendTurn(ctx, cfg, ai.HistoryFromMessages(history), text)
	if !result.Success {
		args := []any{"evaluation_id", scope.EvaluationID, "error", result.Error}
		if scope.IsSession() {
			args = append(args, "chat_session_id", *scope.ChatSessionID)
		}
		logger.FromContext(ctx).Warn("Chat turn failed", args...)
		return nil, &GatewayError{Result: result, UserMessageID: userMsg.ID}
	}

	botMsg := &models.ChatMessage{
		EvaluationID:  scope.EvaluationID,
		ChatSessionID: scope.ChatSessionID,
		Sender:        models.SenderBot,
		Content:       result.Content,
		Reasoning:     result.Reasoning,
		CreatedAt:     s.now(),
	}
	if err := s.store.AppendMessage(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("storing model reply: %w", err)
	}

	return &Exchange{UserMessage: userMsg, BotMessage: botMsg}, nil
}
