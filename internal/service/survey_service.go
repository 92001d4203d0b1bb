package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/repository"
	"chatbot-evaluation/backend/internal/survey"
	"chatbot-evaluation/backend/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Answer is one submitted answer as decoded from JSON
type Answer struct {
	QuestionID uint `json:"question_id"`
	Answer     any  `json:"answer"`
}

// Submission is a survey phase submitted for an evaluation or one of its
// chat sessions.
type Submission struct {
	Phase         models.SurveyPhase
	EvaluationID  uint
	ChatSessionID *uint
	Answers       []Answer
}

// SurveyService serves the question catalog and records survey responses
type SurveyService struct {
	store       repository.Store
	now         func() time.Time
	submissions metric.Int64Counter
}

// NewSurveyService creates a new survey service
func NewSurveyService(store repository.Store) *SurveyService {
	submissions, _ := otel.Meter("chatbot-evaluation/backend/service").Int64Counter(
		"survey_submissions_total",
		metric.WithDescription("Survey submissions by phase, scope and outcome"),
	)
	return &SurveyService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		submissions: submissions,
	}
}

// ListQuestions returns the active questions of a phase in display order
func (s *SurveyService) ListQuestions(ctx context.Context, phase models.SurveyPhase) ([]models.Question, error) {
	return s.store.ListQuestions(ctx, phase, true)
}

// Submit validates a submission against the active questions of its phase
// and persists it atomically. Nothing is stored when any check fails.
// Blank answers to optional questions are dropped.
func (s *SurveyService) Submit(ctx context.Context, sub Submission) (int, error) {
	saved, err := s.submit(ctx, sub)

	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	scopeKind := "evaluation"
	if sub.ChatSessionID != nil {
		scopeKind = "chat_session"
	}
	s.submissions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("phase", string(sub.Phase)),
		attribute.String("scope", scopeKind),
		attribute.String("outcome", outcome),
	))

	return saved, err
}

func (s *SurveyService) submit(ctx context.Context, sub Submission) (int, error) {
	scope, err := s.resolveScope(ctx, sub)
	if err != nil {
		return 0, err
	}

	questions, err := s.store.ListQuestions(ctx, sub.Phase, true)
	if err != nil {
		return 0, fmt.Errorf("loading %s questions: %w", sub.Phase, err)
	}
	byID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	answers := make(map[uint]string, len(sub.Answers))
	var unknown, submitted []uint
	for _, a := range sub.Answers {
		if _, ok := byID[a.QuestionID]; !ok {
			unknown = append(unknown, a.QuestionID)
			continue
		}
		if _, dup := answers[a.QuestionID]; dup {
			return 0, fmt.Errorf("%w: question %d", ErrDuplicateAnswer, a.QuestionID)
		}
		text, err := survey.NormalizeAnswer(a.Answer)
		if err != nil {
			return 0, &survey.AnswerError{QuestionID: a.QuestionID, Reason: err.Error()}
		}
		answers[a.QuestionID] = text
		if text != "" {
			submitted = append(submitted, a.QuestionID)
		}
	}
	if len(unknown) > 0 {
		return 0, &UnknownQuestionError{IDs: unknown}
	}

	if err := survey.ValidateSubmission(sub.Phase, survey.RequiredIDs(questions), submitted); err != nil {
		return 0, err
	}

	// catalog order keeps stored rows in display order
	responses := make([]models.Response, 0, len(submitted))
	for _, q := range questions {
		text, ok := answers[q.ID]
		if !ok {
			continue
		}
		if err := survey.CheckAnswer(&q, text); err != nil {
			return 0, err
		}
		if text == "" {
			continue
		}
		responses = append(responses, models.Response{QuestionID: q.ID, Answer: text})
	}

	if err := s.store.SaveSurvey(ctx, scope, sub.Phase, responses, s.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadySubmitted):
			return 0, ErrSurveyAlreadySubmitted
		case errors.Is(err, repository.ErrNotFound):
			if scope.IsSession() {
				return 0, ErrChatSessionNotFound
			}
			return 0, ErrEvaluationNotFound
		}
		return 0, err
	}

	logger.FromContext(ctx).Info("Survey submitted",
		"phase", sub.Phase,
		"evaluation_id", sub.EvaluationID,
		"responses", len(responses),
	)
	return len(responses), nil
}

func (s *SurveyService) resolveScope(ctx context.Context, sub Submission) (models.Scope, error) {
	if _, err := s.store.GetEvaluation(ctx, sub.EvaluationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Scope{}, ErrEvaluationNotFound
		}
		return models.Scope{}, err
	}
	if sub.ChatSessionID == nil {
		return models.EvaluationScope(sub.EvaluationID), nil
	}

	session, err := s.store.GetChatSession(ctx, *sub.ChatSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Scope{}, ErrChatSessionNotFound
		}
		return models.Scope{}, err
	}
	if session.EvaluationID != sub.EvaluationID {
		return models.Scope{}, ErrScopeMismatch
	}
	return models.SessionScope(sub.EvaluationID, session.ID), nil
}

// SeedQuestions replaces the question catalog after checking every entry
func (s *SurveyService) SeedQuestions(ctx context.Context, questions []models.Question) error {
	for i := range questions {
		if err := survey.CheckQuestion(&questions[i]); err != nil {
			return err
		}
	}
	if err := s.store.ReplaceQuestions(ctx, questions); err != nil {
		return fmt.Errorf("replacing question catalog: %w", err)
	}
	logger.FromContext(ctx).Info("Question catalog replaced", "questions", len(questions))
	return nil
}
