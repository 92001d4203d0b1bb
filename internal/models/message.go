package models

import (
	"time"
)

// ChatSession is one topic of a multi-topic evaluation
type ChatSession struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EvaluationID  uint           `gorm:"index;not null" json:"evaluation_id"`
	UseCase       UseCase        `gorm:"size:32;not null" json:"use_case"`
	PromptStyle   PromptStyle    `gorm:"size:16;not null" json:"prompt_style"`
	LanguageModel *LanguageModel `gorm:"size:32" json:"language_model,omitempty"`
	StartTime     time.Time      `gorm:"not null" json:"start_time"`
	PreSurveyAt   *time.Time     `json:"pre_survey_at,omitempty"`
	EndTime       *time.Time     `json:"end_time,omitempty"`
	Completed     bool           `gorm:"not null;default:false" json:"completed"`
}

// TableName overrides the default table name
func (ChatSession) TableName() string {
	return "chat_sessions"
}

// Condition resolves the session's condition, falling back to the
// evaluation's model when no override was assigned.
func (s *ChatSession) Condition(evaluation *Evaluation) Condition {
	model := evaluation.LanguageModel
	if s.LanguageModel != nil {
		model = *s.LanguageModel
	}
	return Condition{
		LanguageModel: model,
		UseCase:       s.UseCase,
		PromptStyle:   s.PromptStyle,
	}
}

// ChatMessage is an append-only transcript entry
type ChatMessage struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EvaluationID  uint      `gorm:"index;not null" json:"evaluation_id"`
	ChatSessionID *uint     `gorm:"index" json:"chat_session_id,omitempty"`
	Sender        Sender    `gorm:"size:8;not null" json:"sender"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Reasoning     *string   `gorm:"type:text" json:"reasoning,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the default table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// Scope names the entity that owns messages and survey responses:
// the evaluation itself, or one of its chat sessions.
type Scope struct {
	EvaluationID  uint
	ChatSessionID *uint
}

// EvaluationScope returns the scope of a single-topic evaluation
func EvaluationScope(evaluationID uint) Scope {
	return Scope{EvaluationID: evaluationID}
}

// SessionScope returns the scope of a chat session
func SessionScope(evaluationID, chatSessionID uint) Scope {
	id := chatSessionID
	return Scope{EvaluationID: evaluationID, ChatSessionID: &id}
}

// IsSession reports whether the scope is a chat session
func (s Scope) IsSession() bool {
	return s.ChatSessionID != nil
}
