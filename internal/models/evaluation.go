package models

import (
	"time"

	"gorm.io/datatypes"
)

// Condition is the experimental assignment of a conversation
type Condition struct {
	LanguageModel LanguageModel `json:"language_model"`
	UseCase       UseCase       `json:"use_case"`
	PromptStyle   PromptStyle   `json:"prompt_style"`
}

// Evaluation is one participant run through the study.
// EndTime is written once, by the evaluation-scoped post survey.
type Evaluation struct {
	ID            uint                         `gorm:"primaryKey" json:"id"`
	UserID        uint                         `gorm:"index;not null" json:"user_id"`
	LanguageModel LanguageModel                `gorm:"size:32;not null" json:"language_model"`
	UseCase       UseCase                      `gorm:"size:32;not null" json:"use_case"`
	PromptStyle   PromptStyle                  `gorm:"size:16;not null" json:"prompt_style"`
	TopicPlan     datatypes.JSONSlice[UseCase] `json:"topic_plan"`
	StartTime     time.Time                    `gorm:"not null" json:"start_time"`
	PreSurveyAt   *time.Time                   `json:"pre_survey_at,omitempty"`
	EndTime       *time.Time                   `json:"end_time,omitempty"`
	ChatSessions  []ChatSession                `gorm:"foreignKey:EvaluationID" json:"-"`
}

// TableName overrides the default table name
func (Evaluation) TableName() string {
	return "evaluations"
}

// Condition returns the evaluation's assigned condition
func (e *Evaluation) Condition() Condition {
	return Condition{
		LanguageModel: e.LanguageModel,
		UseCase:       e.UseCase,
		PromptStyle:   e.PromptStyle,
	}
}

// Ended reports whether the post survey has closed the evaluation
func (e *Evaluation) Ended() bool {
	return e.EndTime != nil
}
