// Package prompts resolves system prompts and participant goal texts for
// experimental conditions.
package prompts

import (
	"errors"
	"fmt"
	"strings"

	"chatbot-evaluation/backend/internal/models"
)

// ConfigurationError reports a missing catalog entry. It indicates an
// incomplete catalog, not a bad request.
type ConfigurationError struct {
	UseCase     models.UseCase
	PromptStyle models.PromptStyle
	Missing     string
}

func (e *ConfigurationError) Error() string {
	if e.PromptStyle == "" {
		return fmt.Sprintf("prompt catalog: no %s for use case %q", e.Missing, e.UseCase)
	}
	return fmt.Sprintf("prompt catalog: no %s for use case %q and prompt style %q", e.Missing, e.UseCase, e.PromptStyle)
}

// Key addresses one entry of the default table
type Key struct {
	UseCase     models.UseCase
	PromptStyle models.PromptStyle
}

// Catalog is a two-level lookup: a default table keyed by use case and
// prompt style, and a sparse per-model override table on top of it.
type Catalog struct {
	defaults  map[Key]string
	overrides map[models.LanguageModel]map[Key]string
	goals     map[models.UseCase]string
}

// NewCatalog builds a catalog from explicit tables. Maps are copied.
func NewCatalog(defaults map[Key]string, overrides map[models.LanguageModel]map[Key]string, goals map[models.UseCase]string) *Catalog {
	c := &Catalog{
		defaults:  make(map[Key]string, len(defaults)),
		overrides: make(map[models.LanguageModel]map[Key]string, len(overrides)),
		goals:     make(map[models.UseCase]string, len(goals)),
	}
	for k, v := range defaults {
		c.defaults[k] = v
	}
	for model, table := range overrides {
		c.overrides[model] = make(map[Key]string, len(table))
		for k, v := range table {
			c.overrides[model][k] = v
		}
	}
	for k, v := range goals {
		c.goals[k] = v
	}
	return c
}

// Default returns the study's built-in catalog
func Default() *Catalog {
	defaults := map[Key]string{
		{models.UseCaseHealthCare, models.PromptStandard}:           healthCareStandard,
		{models.UseCaseHealthCare, models.PromptProactive}:          healthCareProactive,
		{models.UseCaseEducation, models.PromptStandard}:            educationStandard,
		{models.UseCaseEducation, models.PromptProactive}:           educationProactive,
		{models.UseCaseActivitySupport, models.PromptStandard}:      activitySupportStandard,
		{models.UseCaseActivitySupport, models.PromptProactive}:     activitySupportProactive,
		{models.UseCaseAmbientIntelligence, models.PromptStandard}:  ambientIntelligenceStandard,
		{models.UseCaseAmbientIntelligence, models.PromptProactive}: ambientIntelligenceProactive,
		{models.UseCaseDebate, models.PromptStandard}:               debateStandard,
		{models.UseCaseDebate, models.PromptProactive}:              debateProactive,
	}

	// Sparse: any triple missing here falls through to the defaults.
	overrides := map[models.LanguageModel]map[Key]string{
		models.ModelDeepSeek: {
			{models.UseCaseHealthCare, models.PromptStandard}:  healthCareStandard + reasoningModelSuffix,
			{models.UseCaseHealthCare, models.PromptProactive}: healthCareProactive + reasoningModelSuffix,
			{models.UseCaseDebate, models.PromptStandard}:      debateStandard + reasoningModelSuffix,
			{models.UseCaseDebate, models.PromptProactive}:     debateProactive + reasoningModelSuffix,
		},
	}

	goals := map[models.UseCase]string{
		models.UseCaseHealthCare:          goalHealthCare,
		models.UseCaseEducation:           goalEducation,
		models.UseCaseActivitySupport:     goalActivitySupport,
		models.UseCaseAmbientIntelligence: goalAmbientIntelligence,
		models.UseCaseDebate:              goalDebate,
	}

	return NewCatalog(defaults, overrides, goals)
}

// ResolvePrompt returns the system prompt for a condition. A model-specific
// override wins over the default entry; model may be empty.
func (c *Catalog) ResolvePrompt(useCase models.UseCase, style models.PromptStyle, model models.LanguageModel) (string, error) {
	key := Key{UseCase: useCase, PromptStyle: style}
	if model != "" {
		if text, ok := c.overrides[model][key]; ok && strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	text, ok := c.defaults[key]
	if !ok || strings.TrimSpace(text) == "" {
		return "", &ConfigurationError{UseCase: useCase, PromptStyle: style, Missing: "system prompt"}
	}
	return text, nil
}

// ResolveGoalText returns the participant-facing framing for a use case
func (c *Catalog) ResolveGoalText(useCase models.UseCase) (string, error) {
	text, ok := c.goals[useCase]
	if !ok || strings.TrimSpace(text) == "" {
		return "", &ConfigurationError{UseCase: useCase, Missing: "goal text"}
	}
	return text, nil
}

// Validate checks that every declared use case and prompt style pair has a
// default prompt and every use case has a goal text. Run it at startup.
func (c *Catalog) Validate() error {
	var errs []error
	for _, uc := range models.UseCases() {
		for _, style := range models.PromptStyles() {
			if _, err := c.ResolvePrompt(uc, style, ""); err != nil {
				errs = append(errs, err)
			}
		}
		if _, err := c.ResolveGoalText(uc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
