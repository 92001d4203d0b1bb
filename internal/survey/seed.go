package survey

import (
	"fmt"
	"io"

	"chatbot-evaluation/backend/internal/models"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	Text       string              `yaml:"text"`
	Type       models.QuestionType `yaml:"type"`
	Required   bool                `yaml:"required"`
	Order      int                 `yaml:"order"`
	SurveyType models.SurveyPhase  `yaml:"survey_type"`
	Active     *bool               `yaml:"active"`
	MinValue   *float64            `yaml:"min_value"`
	MaxValue   *float64            `yaml:"max_value"`
	Step       *float64            `yaml:"step"`
	Options    []string            `yaml:"options"`
}

// LoadQuestions decodes a YAML question catalog. Questions are active
// unless the file says otherwise.
func LoadQuestions(r io.Reader) ([]models.Question, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode question file: %w", err)
	}

	questions := make([]models.Question, 0, len(file.Questions))
	for i, sq := range file.Questions {
		q := models.Question{
			Text:       sq.Text,
			Type:       sq.Type,
			Required:   sq.Required,
			Order:      sq.Order,
			SurveyType: sq.SurveyType,
			Active:     sq.Active == nil || *sq.Active,
			MinValue:   sq.MinValue,
			MaxValue:   sq.MaxValue,
			Step:       sq.Step,
			Options:    sq.Options,
		}
		if err := CheckQuestion(&q); err != nil {
			return nil, fmt.Errorf("question #%d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
