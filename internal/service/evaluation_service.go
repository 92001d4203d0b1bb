// Package service orchestrates the study: participant sessions, condition
// assignment, chat turns, survey submission and results.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/randomization"
	"chatbot-evaluation/backend/internal/repository"
	"chatbot-evaluation/backend/pkg/logger"

	"github.com/google/uuid"
)

// ConditionDrawer draws experimental conditions
type ConditionDrawer interface {
	DrawCondition() models.Condition
	DrawLanguageModel() models.LanguageModel
	DrawPromptStyle() models.PromptStyle
	DrawSequence(useCases []models.UseCase) []models.UseCase
}

// GoalResolver returns the participant-facing framing of a use case
type GoalResolver interface {
	ResolveGoalText(useCase models.UseCase) (string, error)
}

// Topic is the next use case an evaluation should cover. Done is set when
// every topic of the plan has a completed chat session.
type Topic struct {
	UseCase  models.UseCase `json:"use_case,omitempty"`
	GoalText string         `json:"goal_text,omitempty"`
	Done     bool           `json:"done"`
}

// StartChatSessionRequest selects the topic and optionally the model of a
// new chat session. Nil fields are resolved by the service.
type StartChatSessionRequest struct {
	EvaluationID  uint
	UseCase       *models.UseCase
	LanguageModel *models.LanguageModel
}

// ChatSessionStart is the session a participant should chat in
type ChatSessionStart struct {
	Session  *models.ChatSession
	GoalText string
	// Resumed is set when an open session for the topic already existed
	Resumed bool
}

// EvaluationOptions tunes condition assignment
type EvaluationOptions struct {
	// RandomizeModelPerTopic draws a model for each chat session instead of
	// reusing the evaluation's model
	RandomizeModelPerTopic bool
}

// EvaluationService creates participants and evaluations and assigns topics
type EvaluationService struct {
	store  repository.Store
	drawer ConditionDrawer
	goals  GoalResolver
	opts   EvaluationOptions
	now    func() time.Time
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(store repository.Store, drawer ConditionDrawer, goals GoalResolver, opts EvaluationOptions) *EvaluationService {
	return &EvaluationService{
		store:  store,
		drawer: drawer,
		goals:  goals,
		opts:   opts,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession registers an anonymous participant
func (s *EvaluationService) CreateSession(ctx context.Context) (*models.User, error) {
	user := &models.User{SessionID: uuid.NewString()}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	logger.FromContext(ctx).WithSessionID(user.SessionID).Info("Participant session created")
	return user, nil
}

// StartEvaluation draws a condition and a topic plan for the participant
// owning sessionID.
func (s *EvaluationService) StartEvaluation(ctx context.Context, sessionID string) (*models.Evaluation, error) {
	user, err := s.store.GetUserBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	condition := s.drawer.DrawCondition()
	evaluation := &models.Evaluation{
		UserID:        user.ID,
		LanguageModel: condition.LanguageModel,
		UseCase:       condition.UseCase,
		PromptStyle:   condition.PromptStyle,
		TopicPlan:     s.drawer.DrawSequence(models.UseCases()),
		StartTime:     s.now(),
	}
	if err := s.store.CreateEvaluation(ctx, evaluation); err != nil {
		return nil, fmt.Errorf("creating evaluation: %w", err)
	}

	logger.FromContext(ctx).WithSessionID(sessionID).Info("Evaluation started",
		"evaluation_id", evaluation.ID,
		"language_model", evaluation.LanguageModel,
		"use_case", evaluation.UseCase,
		"prompt_style", evaluation.PromptStyle,
	)
	return evaluation, nil
}

// GetEvaluation loads an evaluation
func (s *EvaluationService) GetEvaluation(ctx context.Context, id uint) (*models.Evaluation, error) {
	evaluation, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	return evaluation, nil
}

// GoalText returns the framing shown to the participant for useCase
func (s *EvaluationService) GoalText(useCase models.UseCase) (string, error) {
	return s.goals.ResolveGoalText(useCase)
}

// NextTopic returns the first topic without a completed chat session, in the
// order of the topic plan drawn when the evaluation started.
func (s *EvaluationService) NextTopic(ctx context.Context, evaluationID uint) (*Topic, error) {
	evaluation, err := s.GetEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, err
	}

	useCase, ok, err := s.nextTopic(ctx, evaluation)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Topic{Done: true}, nil
	}

	goal, err := s.goals.ResolveGoalText(useCase)
	if err != nil {
		return nil, err
	}
	return &Topic{UseCase: useCase, GoalText: goal}, nil
}

// StartChatSession opens a chat session for the requested or next topic.
// An open session for the same topic is resumed rather than duplicated.
func (s *EvaluationService) StartChatSession(ctx context.Context, req StartChatSessionRequest) (*ChatSessionStart, error) {
	evaluation, err := s.GetEvaluation(ctx, req.EvaluationID)
	if err != nil {
		return nil, err
	}
	if evaluation.Ended() {
		return nil, ErrEvaluationEnded
	}

	var useCase models.UseCase
	if req.UseCase != nil {
		useCase = *req.UseCase
		completed, err := s.store.CompletedUseCases(ctx, evaluation.ID)
		if err != nil {
			return nil, fmt.Errorf("loading completed topics: %w", err)
		}
		if slices.Contains(completed, useCase) {
			return nil, ErrTopicCompleted
		}
	} else {
		next, ok, err := s.nextTopic(ctx, evaluation)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrTopicsExhausted
		}
		useCase = next
	}

	goal, err := s.goals.ResolveGoalText(useCase)
	if err != nil {
		return nil, err
	}

	open, err := s.store.FindOpenChatSession(ctx, evaluation.ID, useCase)
	switch {
	case err == nil:
		return &ChatSessionStart{Session: open, GoalText: goal, Resumed: true}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("looking up open chat session: %w", err)
	}

	model := req.LanguageModel
	if model == nil && s.opts.RandomizeModelPerTopic {
		drawn := s.drawer.DrawLanguageModel()
		model = &drawn
	}

	session := &models.ChatSession{
		EvaluationID:  evaluation.ID,
		UseCase:       useCase,
		PromptStyle:   s.drawer.DrawPromptStyle(),
		LanguageModel: model,
		StartTime:     s.now(),
	}
	if err := s.store.CreateChatSession(ctx, session); err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}

	condition := session.Condition(evaluation)
	logger.FromContext(ctx).Info("Chat session started",
		"evaluation_id", evaluation.ID,
		"chat_session_id", session.ID,
		"language_model", condition.LanguageModel,
		"use_case", condition.UseCase,
		"prompt_style", condition.PromptStyle,
	)
	return &ChatSessionStart{Session: session, GoalText: goal}, nil
}

func (s *EvaluationService) nextTopic(ctx context.Context, evaluation *models.Evaluation) (models.UseCase, bool, error) {
	completed, err := s.store.CompletedUseCases(ctx, evaluation.ID)
	if err != nil {
		return "", false, fmt.Errorf("loading completed topics: %w", err)
	}

	plan := []models.UseCase(evaluation.TopicPlan)
	if len(plan) == 0 {
		plan = models.UseCases()
	}
	useCase, ok := randomization.NextUncompletedTopic(plan, completed)
	return useCase, ok, nil
}
