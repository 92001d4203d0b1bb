package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/repository"
)

// AnswerView is a stored response with its question and typed value
type AnswerView struct {
	QuestionID   uint                `json:"question_id"`
	QuestionText string              `json:"question_text,omitempty"`
	Type         models.QuestionType `json:"type,omitempty"`
	Answer       string              `json:"answer"`
	Value        any                 `json:"value"`
}

// SurveyResults groups the responses of a scope by phase
type SurveyResults struct {
	Pre  []AnswerView `json:"pre"`
	Post []AnswerView `json:"post"`
}

// ChatSessionResults is one chat session with its transcript and surveys
type ChatSessionResults struct {
	ID        uint                 `json:"id"`
	Condition models.Condition     `json:"condition"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time"`
	Completed bool                 `json:"completed"`
	Messages  []models.ChatMessage `json:"messages"`
	Surveys   SurveyResults        `json:"surveys"`
}

// Results is the read-only projection of an evaluation
type Results struct {
	EvaluationID uint                 `json:"evaluation_id"`
	Condition    models.Condition     `json:"condition"`
	TopicPlan    []models.UseCase     `json:"topic_plan"`
	StartTime    time.Time            `json:"start_time"`
	PreSurveyAt  *time.Time           `json:"pre_survey_at"`
	EndTime      *time.Time           `json:"end_time"`
	Surveys      SurveyResults        `json:"surveys"`
	Messages     []models.ChatMessage `json:"messages"`
	ChatSessions []ChatSessionResults `json:"chat_sessions"`
}

// ResultsService assembles evaluation results
type ResultsService struct {
	store repository.Store
}

// NewResultsService creates a new results service
func NewResultsService(store repository.Store) *ResultsService {
	return &ResultsService{store: store}
}

// Get builds the results of an evaluation. It never writes.
func (s *ResultsService) Get(ctx context.Context, evaluationID uint) (*Results, error) {
	evaluation, err := s.store.GetEvaluation(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}

	questions, err := s.questionIndex(ctx)
	if err != nil {
		return nil, err
	}

	scope := models.EvaluationScope(evaluation.ID)
	messages, err := s.store.ListMessages(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	surveys, err := s.surveys(ctx, scope, questions)
	if err != nil {
		return nil, err
	}

	sessions, err := s.store.ListChatSessions(ctx, evaluation.ID)
	if err != nil {
		return nil, fmt.Errorf("loading chat sessions: %w", err)
	}

	results := &Results{
		EvaluationID: evaluation.ID,
		Condition:    evaluation.Condition(),
		TopicPlan:    evaluation.TopicPlan,
		StartTime:    evaluation.StartTime,
		PreSurveyAt:  evaluation.PreSurveyAt,
		EndTime:      evaluation.EndTime,
		Surveys:      surveys,
		Messages:     messages,
		ChatSessions: make([]ChatSessionResults, 0, len(sessions)),
	}

	for i := range sessions {
		session := &sessions[i]
		sessionScope := models.SessionScope(evaluation.ID, session.ID)

		msgs, err := s.store.ListMessages(ctx, sessionScope)
		if err != nil {
			return nil, fmt.Errorf("loading messages of chat session %d: %w", session.ID, err)
		}
		sessionSurveys, err := s.surveys(ctx, sessionScope, questions)
		if err != nil {
			return nil, err
		}

		results.ChatSessions = append(results.ChatSessions, ChatSessionResults{
			ID:        session.ID,
			Condition: session.Condition(evaluation),
			StartTime: session.StartTime,
			EndTime:   session.EndTime,
			Completed: session.Completed,
			Messages:  msgs,
			Surveys:   sessionSurveys,
		})
	}

	return results, nil
}

// questionIndex includes inactive questions so that answers to retired
// questions still resolve.
func (s *ResultsService) questionIndex(ctx context.Context) (map[uint]*models.Question, error) {
	index := make(map[uint]*models.Question)
	for _, phase := range []models.SurveyPhase{models.PhasePre, models.PhasePost} {
		qs, err := s.store.ListQuestions(ctx, phase, false)
		if err != nil {
			return nil, fmt.Errorf("loading %s questions: %w", phase, err)
		}
		for i := range qs {
			index[qs[i].ID] = &qs[i]
		}
	}
	return index, nil
}

func (s *ResultsService) surveys(ctx context.Context, scope models.Scope, questions map[uint]*models.Question) (SurveyResults, error) {
	responses, err := s.store.ListResponses(ctx, scope)
	if err != nil {
		return SurveyResults{}, fmt.Errorf("loading responses: %w", err)
	}

	out := SurveyResults{Pre: []AnswerView{}, Post: []AnswerView{}}
	for _, r := range responses {
		view := AnswerView{QuestionID: r.QuestionID, Answer: r.Answer, Value: r.Answer}
		if q, ok := questions[r.QuestionID]; ok {
			view.QuestionText = q.Text
			view.Type = q.Type
			if v, err := q.ParseAnswer(r.Answer); err == nil {
				view.Value = v
			}
		}
		if r.Phase == models.PhasePre {
			out.Pre = append(out.Pre, view)
		} else {
			out.Post = append(out.Post, view)
		}
	}
	return out, nil
}
