package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is a survey catalog entry. Rows are maintained by the seeding tool.
type Question struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	Text       string                      `gorm:"type:text;not null" json:"text"`
	Type       QuestionType                `gorm:"size:16;not null" json:"type"`
	Required   bool                        `gorm:"not null" json:"required"`
	Order      int                         `gorm:"column:order_index;not null" json:"order"`
	SurveyType SurveyPhase                 `gorm:"size:8;index;not null" json:"survey_type"`
	Active     bool                        `gorm:"not null" json:"active"`
	MinValue   *float64                    `json:"min_value,omitempty"`
	MaxValue   *float64                    `json:"max_value,omitempty"`
	Step       *float64                    `json:"step,omitempty"`
	Options    datatypes.JSONSlice[string] `json:"options,omitempty"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// TableName overrides the default table name
func (Question) TableName() string {
	return "questions"
}

// Likert scale bounds
const (
	LikertMin = 1
	LikertMax = 5
)

// ParseAnswer converts a stored answer back into its typed value:
// int for likert, float64 for numeric, string otherwise.
func (q *Question) ParseAnswer(answer string) (any, error) {
	answer = strings.TrimSpace(answer)
	switch q.Type {
	case QuestionLikert:
		v, err := strconv.Atoi(answer)
		if err != nil {
			return nil, fmt.Errorf("question %d: likert answer %q is not an integer", q.ID, answer)
		}
		return v, nil
	case QuestionNumeric:
		v, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return nil, fmt.Errorf("question %d: numeric answer %q is not a number", q.ID, answer)
		}
		return v, nil
	default:
		return answer, nil
	}
}

// Response stores one answer of a survey submission as text
type Response struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	QuestionID    uint        `gorm:"index;not null" json:"question_id"`
	EvaluationID  uint        `gorm:"index;not null" json:"evaluation_id"`
	ChatSessionID *uint       `gorm:"index" json:"chat_session_id,omitempty"`
	Phase         SurveyPhase `gorm:"size:8;not null" json:"phase"`
	Answer        string      `gorm:"type:text;not null" json:"answer"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TableName overrides the default table name
func (Response) TableName() string {
	return "responses"
}

// AutoMigrate creates or updates every table of the study schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Evaluation{},
		&ChatSession{},
		&ChatMessage{},
		&Question{},
		&Response{},
	)
}
