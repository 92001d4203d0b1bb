package survey

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"chatbot-evaluation/backend/internal/models"
)

// MaxAnswerLength bounds free-text answers
const MaxAnswerLength = 2000

const stepTolerance = 1e-9

// AnswerError reports an answer that does not fit its question
type AnswerError struct {
	QuestionID uint
	Reason     string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("question %d: %s", e.QuestionID, e.Reason)
}

// NormalizeAnswer turns a decoded JSON value into the text form stored in
// the responses table.
func NormalizeAnswer(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case json.Number:
		return val.String(), nil
	default:
		return "", fmt.Errorf("unsupported answer type %T", v)
	}
}

// CheckAnswer validates a normalized answer against the question's kind
// and constraints. Blank answers to optional questions pass.
func CheckAnswer(q *models.Question, answer string) error {
	if answer == "" {
		if q.Required {
			return &AnswerError{QuestionID: q.ID, Reason: "answer is required"}
		}
		return nil
	}

	switch q.Type {
	case models.QuestionLikert:
		v, err := strconv.Atoi(answer)
		if err != nil || v < models.LikertMin || v > models.LikertMax {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("rating must be an integer from %d to %d", models.LikertMin, models.LikertMax)}
		}
	case models.QuestionNumeric:
		v, err := strconv.ParseFloat(answer, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return &AnswerError{QuestionID: q.ID, Reason: "answer must be a number"}
		}
		if q.MinValue != nil && v < *q.MinValue {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("answer must be at least %g", *q.MinValue)}
		}
		if q.MaxValue != nil && v > *q.MaxValue {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("answer must be at most %g", *q.MaxValue)}
		}
		if q.Step != nil && *q.Step > 0 {
			base := 0.0
			if q.MinValue != nil {
				base = *q.MinValue
			}
			steps := (v - base) / *q.Step
			if math.Abs(steps-math.Round(steps)) > stepTolerance {
				return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("answer must be a multiple of %g", *q.Step)}
			}
		}
	case models.QuestionChoice:
		if !slices.Contains(q.Options, answer) {
			return &AnswerError{QuestionID: q.ID, Reason: "answer is not one of the options"}
		}
	case models.QuestionText:
		if len([]rune(answer)) > MaxAnswerLength {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("answer exceeds %d characters", MaxAnswerLength)}
		}
	}
	return nil
}

// CheckQuestion validates a catalog entry before it is seeded
func CheckQuestion(q *models.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("question %q: invalid type %q", q.Text, q.Type)
	}
	if !q.SurveyType.Valid() {
		return fmt.Errorf("question %q: invalid survey type %q", q.Text, q.SurveyType)
	}
	switch q.Type {
	case models.QuestionNumeric:
		if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
			return fmt.Errorf("question %q: min_value exceeds max_value", q.Text)
		}
		if q.Step != nil && *q.Step <= 0 {
			return fmt.Errorf("question %q: step must be positive", q.Text)
		}
	case models.QuestionChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q: choice questions need at least two options", q.Text)
		}
	}
	return nil
}
