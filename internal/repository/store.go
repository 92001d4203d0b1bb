// Package repository is the persistence layer of the study: participants,
// evaluations, chat sessions, transcripts, the question catalog and survey
// responses.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatbot-evaluation/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrAlreadySubmitted is returned when a survey phase was already
	// recorded for its scope
	ErrAlreadySubmitted = errors.New("survey already submitted")
)

// Store is the persistence façade used by the service layer
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*models.User, error)

	CreateEvaluation(ctx context.Context, evaluation *models.Evaluation) error
	GetEvaluation(ctx context.Context, id uint) (*models.Evaluation, error)

	CreateChatSession(ctx context.Context, session *models.ChatSession) error
	GetChatSession(ctx context.Context, id uint) (*models.ChatSession, error)
	ListChatSessions(ctx context.Context, evaluationID uint) ([]models.ChatSession, error)
	FindOpenChatSession(ctx context.Context, evaluationID uint, useCase models.UseCase) (*models.ChatSession, error)
	CompletedUseCases(ctx context.Context, evaluationID uint) ([]models.UseCase, error)

	AppendMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, scope models.Scope) ([]models.ChatMessage, error)

	ListQuestions(ctx context.Context, phase models.SurveyPhase, activeOnly bool) ([]models.Question, error)
	ReplaceQuestions(ctx context.Context, questions []models.Question) error

	SaveSurvey(ctx context.Context, scope models.Scope, phase models.SurveyPhase, responses []models.Response, at time.Time) error
	ListResponses(ctx context.Context, scope models.Scope) ([]models.Response, error)
}

// GormStore implements Store on top of GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (r *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormStore) GetUserBySessionID(ctx context.Context, sessionID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormStore) CreateEvaluation(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *GormStore) GetEvaluation(ctx context.Context, id uint) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).First(&evaluation, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &evaluation, nil
}

func (r *GormStore) CreateChatSession(ctx context.Context, session *models.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *GormStore) GetChatSession(ctx context.Context, id uint) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (r *GormStore) ListChatSessions(ctx context.Context, evaluationID uint) ([]models.ChatSession, error) {
	sessions := []models.ChatSession{}
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Order("start_time ASC, id ASC").
		Find(&sessions).Error
	return sessions, err
}

// FindOpenChatSession returns the most recent uncompleted session of an
// evaluation for useCase, or ErrNotFound.
func (r *GormStore) FindOpenChatSession(ctx context.Context, evaluationID uint, useCase models.UseCase) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ? AND use_case = ? AND completed = ?", evaluationID, useCase, false).
		Order("id DESC").
		First(&session).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// CompletedUseCases lists the use cases of an evaluation whose chat session
// has been completed by a post survey.
func (r *GormStore) CompletedUseCases(ctx context.Context, evaluationID uint) ([]models.UseCase, error) {
	var useCases []models.UseCase
	err := r.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("evaluation_id = ? AND completed = ?", evaluationID, true).
		Order("id ASC").
		Pluck("use_case", &useCases).Error
	return useCases, err
}

// AppendMessage inserts a transcript entry. Messages are never updated.
func (r *GormStore) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns the transcript of a scope ordered by creation time,
// then id. The evaluation scope excludes messages of its chat sessions.
func (r *GormStore) ListMessages(ctx context.Context, scope models.Scope) ([]models.ChatMessage, error) {
	msgs := []models.ChatMessage{}
	err := scoped(r.db.WithContext(ctx), scope).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// ListQuestions returns the questions of a phase ordered by display order,
// then id.
func (r *GormStore) ListQuestions(ctx context.Context, phase models.SurveyPhase, activeOnly bool) ([]models.Question, error) {
	questions := []models.Question{}
	query := r.db.WithContext(ctx).Where("survey_type = ?", phase)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("order_index ASC, id ASC").Find(&questions).Error
	return questions, err
}

// ReplaceQuestions deletes the whole catalog and inserts questions in one
// transaction.
func (r *GormStore) ReplaceQuestions(ctx context.Context, questions []models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("clearing questions: %w", err)
		}
		if len(questions) == 0 {
			return nil
		}
		if err := tx.Create(&questions).Error; err != nil {
			return fmt.Errorf("inserting questions: %w", err)
		}
		return nil
	})
}

// SaveSurvey records a survey phase for a scope in one transaction. The
// scope row is locked, the phase marker is set only if still unset (for the
// post phase this also ends the evaluation or completes the chat session),
// and the responses are inserted. A phase that was already recorded yields
// ErrAlreadySubmitted and nothing is written.
func (r *GormStore) SaveSurvey(ctx context.Context, scope models.Scope, phase models.SurveyPhase, responses []models.Response, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockScope(tx, scope); err != nil {
			return err
		}

		result := markPhase(tx, scope, phase, at)
		if result.Error != nil {
			return fmt.Errorf("recording %s survey: %w", phase, result.Error)
		}
		if result.RowsAffected != 1 {
			return ErrAlreadySubmitted
		}

		if len(responses) == 0 {
			return nil
		}
		for i := range responses {
			responses[i].EvaluationID = scope.EvaluationID
			responses[i].ChatSessionID = scope.ChatSessionID
			responses[i].Phase = phase
			responses[i].CreatedAt = at
		}
		if err := tx.Create(&responses).Error; err != nil {
			return fmt.Errorf("inserting responses: %w", err)
		}
		return nil
	})
}

// ListResponses returns the responses recorded for a scope in insertion order
func (r *GormStore) ListResponses(ctx context.Context, scope models.Scope) ([]models.Response, error) {
	responses := []models.Response{}
	err := scoped(r.db.WithContext(ctx), scope).
		Order("id ASC").
		Find(&responses).Error
	return responses, err
}

func lockScope(tx *gorm.DB, scope models.Scope) error {
	locking := clause.Locking{Strength: "UPDATE"}
	var err error
	if scope.IsSession() {
		err = tx.Clauses(locking).
			Where("evaluation_id = ?", scope.EvaluationID).
			First(&models.ChatSession{}, *scope.ChatSessionID).Error
	} else {
		err = tx.Clauses(locking).First(&models.Evaluation{}, scope.EvaluationID).Error
	}
	return notFound(err)
}

func markPhase(tx *gorm.DB, scope models.Scope, phase models.SurveyPhase, at time.Time) *gorm.DB {
	if scope.IsSession() {
		query := tx.Model(&models.ChatSession{}).Where("id = ?", *scope.ChatSessionID)
		if phase == models.PhasePre {
			return query.Where("pre_survey_at IS NULL").Update("pre_survey_at", at)
		}
		return query.Where("completed = ?", false).
			Updates(map[string]any{"completed": true, "end_time": at})
	}

	query := tx.Model(&models.Evaluation{}).Where("id = ?", scope.EvaluationID)
	if phase == models.PhasePre {
		return query.Where("pre_survey_at IS NULL").Update("pre_survey_at", at)
	}
	return query.Where("end_time IS NULL").Update("end_time", at)
}

func scoped(db *gorm.DB, scope models.Scope) *gorm.DB {
	db = db.Where("evaluation_id = ?", scope.EvaluationID)
	if scope.IsSession() {
		return db.Where("chat_session_id = ?", *scope.ChatSessionID)
	}
	return db.Where("chat_session_id IS NULL")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
