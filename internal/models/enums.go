package models

import (
	"encoding/json"
	"fmt"
)

// LanguageModel identifies the hosted model that answers a conversation
type LanguageModel string

// Language models available to the study
const (
	ModelLlama    LanguageModel = "llama3.1"
	ModelDeepSeek LanguageModel = "deepseek-r1"
)

// UseCase is the conversational domain of an evaluation or chat session
type UseCase string

// Use cases in catalog enumeration order
const (
	UseCaseHealthCare          UseCase = "health_care"
	UseCaseEducation           UseCase = "education"
	UseCaseActivitySupport     UseCase = "activity_support"
	UseCaseAmbientIntelligence UseCase = "ambient_intelligence"
	UseCaseDebate              UseCase = "debate"
)

// PromptStyle selects the system prompt variant
type PromptStyle string

// Prompt styles
const (
	PromptStandard  PromptStyle = "standard"
	PromptProactive PromptStyle = "proactive"
)

// Sender is the author of a chat message
type Sender string

// Message senders
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// SurveyPhase distinguishes questionnaires shown before and after a chat
type SurveyPhase string

// Survey phases
const (
	PhasePre  SurveyPhase = "pre"
	PhasePost SurveyPhase = "post"
)

// QuestionType is the answer kind of a survey question
type QuestionType string

// Question types
const (
	QuestionLikert  QuestionType = "likert"
	QuestionText    QuestionType = "text"
	QuestionNumeric QuestionType = "numeric"
	QuestionChoice  QuestionType = "choice"
)

// LanguageModels returns every supported model
func LanguageModels() []LanguageModel {
	return []LanguageModel{ModelLlama, ModelDeepSeek}
}

// UseCases returns every use case in catalog order
func UseCases() []UseCase {
	return []UseCase{
		UseCaseHealthCare,
		UseCaseEducation,
		UseCaseActivitySupport,
		UseCaseAmbientIntelligence,
		UseCaseDebate,
	}
}

// PromptStyles returns every prompt style
func PromptStyles() []PromptStyle {
	return []PromptStyle{PromptStandard, PromptProactive}
}

// Valid reports whether m is a supported model
func (m LanguageModel) Valid() bool { return contains(LanguageModels(), m) }

// Valid reports whether u is a declared use case
func (u UseCase) Valid() bool { return contains(UseCases(), u) }

// Valid reports whether p is a declared prompt style
func (p PromptStyle) Valid() bool { return contains(PromptStyles(), p) }

// Valid reports whether s is a known sender
func (s Sender) Valid() bool { return s == SenderUser || s == SenderBot }

// Valid reports whether p is a known survey phase
func (p SurveyPhase) Valid() bool { return p == PhasePre || p == PhasePost }

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionLikert, QuestionText, QuestionNumeric, QuestionChoice:
		return true
	}
	return false
}

// ParseLanguageModel converts a raw string into a LanguageModel
func ParseLanguageModel(s string) (LanguageModel, error) {
	return parseEnum[LanguageModel]("language model", s)
}

// ParseUseCase converts a raw string into a UseCase
func ParseUseCase(s string) (UseCase, error) {
	return parseEnum[UseCase]("use case", s)
}

// ParsePromptStyle converts a raw string into a PromptStyle
func ParsePromptStyle(s string) (PromptStyle, error) {
	return parseEnum[PromptStyle]("prompt style", s)
}

// ParseSurveyPhase converts a raw string into a SurveyPhase
func ParseSurveyPhase(s string) (SurveyPhase, error) {
	return parseEnum[SurveyPhase]("survey phase", s)
}

// ParseQuestionType converts a raw string into a QuestionType
func ParseQuestionType(s string) (QuestionType, error) {
	return parseEnum[QuestionType]("question type", s)
}

func (m *LanguageModel) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, m, ParseLanguageModel)
}

func (u *UseCase) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, u, ParseUseCase)
}

func (p *PromptStyle) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, ParsePromptStyle)
}

func (s *Sender) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, func(raw string) (Sender, error) {
		return parseEnum[Sender]("sender", raw)
	})
}

func (p *SurveyPhase) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, ParseSurveyPhase)
}

func (t *QuestionType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, ParseQuestionType)
}

// UnmarshalYAML lets seed files use the same validation as the HTTP boundary
func (t *QuestionType) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	v, err := ParseQuestionType(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalYAML validates the phase of a seeded question
func (p *SurveyPhase) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	v, err := ParseSurveyPhase(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

type enum interface {
	~string
	Valid() bool
}

func parseEnum[T enum](kind, raw string) (T, error) {
	v := T(raw)
	if !v.Valid() {
		return "", fmt.Errorf("invalid %s %q", kind, raw)
	}
	return v, nil
}

func unmarshalEnum[T enum](data []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func contains[T comparable](set []T, v T) bool {
	for _, item := range set {
		if item == v {
			return true
		}
	}
	return false
}
