// Package survey checks survey submissions before they are persisted.
package survey

import (
	"fmt"
	"slices"
	"strings"

	"chatbot-evaluation/backend/internal/models"
)

// ValidationError lists the required questions a submission left out
type ValidationError struct {
	Phase   models.SurveyPhase
	Missing []uint
}

func (e *ValidationError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("%s survey is missing required questions: %s", e.Phase, strings.Join(ids, ", "))
}

// ValidateSubmission computes required minus submitted. A non-empty
// difference is returned as a *ValidationError with the ids sorted.
func ValidateSubmission(phase models.SurveyPhase, required, submitted []uint) error {
	seen := make(map[uint]struct{}, len(submitted))
	for _, id := range submitted {
		seen[id] = struct{}{}
	}

	var missing []uint
	for _, id := range required {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	slices.Sort(missing)
	missing = slices.Compact(missing)
	return &ValidationError{Phase: phase, Missing: missing}
}

// RequiredIDs returns the ids of the required questions among qs
func RequiredIDs(qs []models.Question) []uint {
	ids := make([]uint, 0, len(qs))
	for _, q := range qs {
		if q.Required {
			ids = append(ids, q.ID)
		}
	}
	return ids
}
