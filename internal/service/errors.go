package service

import (
	"errors"
	"fmt"

	"chatbot-evaluation/backend/ai"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrChatSessionNotFound = errors.New("chat session not found")

	ErrEmptyMessage    = errors.New("message must not be empty")
	ErrScopeMismatch   = errors.New("chat session does not belong to the evaluation")
	ErrDuplicateAnswer = errors.New("question answered more than once")

	ErrEvaluationEnded        = errors.New("evaluation has already ended")
	ErrChatSessionCompleted   = errors.New("chat session is already completed")
	ErrTopicCompleted         = errors.New("topic has already been completed")
	ErrTopicsExhausted        = errors.New("every topic of the evaluation has been completed")
	ErrSurveyAlreadySubmitted = errors.New("survey already submitted")
)

// UnknownQuestionError lists submitted question ids that are not active
// questions of the submitted phase.
type UnknownQuestionError struct {
	IDs []uint
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown questions: %v", e.IDs)
}

// GatewayError carries a failed chat turn. The participant's message has
// been stored under UserMessageID.
type GatewayError struct {
	Result        ai.Result
	UserMessageID uint
}

func (e *GatewayError) Error() string {
	return "inference failed: " + e.Result.Error
}
