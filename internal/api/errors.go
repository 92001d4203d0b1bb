package api

import (
	"errors"
	"strconv"

	"chatbot-evaluation/backend/internal/prompts"
	"chatbot-evaluation/backend/internal/service"
	"chatbot-evaluation/backend/internal/survey"
	apperrors "chatbot-evaluation/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

var sentinelErrors = []struct {
	err    error
	appErr func() *apperrors.AppError
}{
	{service.ErrSessionNotFound, func() *apperrors.AppError {
		return apperrors.NewNotFoundError("SESSION_NOT_FOUND", "Session not found")
	}},
	{service.ErrEvaluationNotFound, func() *apperrors.AppError {
		return apperrors.NewNotFoundError("EVALUATION_NOT_FOUND", "Evaluation not found")
	}},
	{service.ErrChatSessionNotFound, func() *apperrors.AppError {
		return apperrors.NewNotFoundError("CHAT_SESSION_NOT_FOUND", "Chat session not found")
	}},
	{service.ErrEmptyMessage, func() *apperrors.AppError {
		return apperrors.NewBadRequestError("EMPTY_MESSAGE", "Message must not be empty")
	}},
	{service.ErrScopeMismatch, func() *apperrors.AppError {
		return apperrors.NewBadRequestError("SCOPE_MISMATCH", "Chat session does not belong to the evaluation")
	}},
	{service.ErrDuplicateAnswer, func() *apperrors.AppError {
		return apperrors.NewBadRequestError("DUPLICATE_QUESTION", "A question was answered more than once")
	}},
	{service.ErrEvaluationEnded, func() *apperrors.AppError {
		return apperrors.NewConflictError("EVALUATION_ENDED", "Evaluation has already ended")
	}},
	{service.ErrChatSessionCompleted, func() *apperrors.AppError {
		return apperrors.NewConflictError("CHAT_SESSION_COMPLETED", "Chat session is already completed")
	}},
	{service.ErrTopicCompleted, func() *apperrors.AppError {
		return apperrors.NewConflictError("TOPIC_COMPLETED", "Topic has already been completed")
	}},
	{service.ErrTopicsExhausted, func() *apperrors.AppError {
		return apperrors.NewConflictError("TOPICS_EXHAUSTED", "Every topic of the evaluation has been completed")
	}},
	{service.ErrSurveyAlreadySubmitted, func() *apperrors.AppError {
		return apperrors.NewConflictError("SURVEY_ALREADY_SUBMITTED", "Survey has already been submitted")
	}},
}

// toAppError maps service-layer errors onto HTTP errors. Unknown errors are
// returned unchanged and rendered as internal errors.
func toAppError(err error) error {
	for _, s := range sentinelErrors {
		if errors.Is(err, s.err) {
			return s.appErr()
		}
	}

	var unknown *service.UnknownQuestionError
	if errors.As(err, &unknown) {
		return apperrors.BadRequestWithDetails("UNKNOWN_QUESTION", "Submission references unknown questions", unknown.IDs)
	}

	var validation *survey.ValidationError
	if errors.As(err, &validation) {
		return apperrors.BadRequestWithDetails("MISSING_REQUIRED", "Required questions were not answered", validation.Missing)
	}

	var answerErr *survey.AnswerError
	if errors.As(err, &answerErr) {
		return apperrors.BadRequestWithDetails("INVALID_ANSWER", answerErr.Error(), gin.H{
			"question_id": answerErr.QuestionID,
			"reason":      answerErr.Reason,
		})
	}

	var gatewayErr *service.GatewayError
	if errors.As(err, &gatewayErr) {
		return apperrors.BadGatewayWithDetails("GATEWAY_ERROR", "The language model did not answer", gin.H{
			"error":           gatewayErr.Result.Error,
			"timestamp":       gatewayErr.Result.Timestamp,
			"user_message_id": gatewayErr.UserMessageID,
		})
	}

	var configErr *prompts.ConfigurationError
	if errors.As(err, &configErr) {
		return apperrors.NewInternalServerError("CONFIGURATION_ERROR", "The study is not configured for this condition")
	}

	return err
}

// abortWithError records err for the error middleware and stops the chain
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(toAppError(err))
	c.Abort()
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(apperrors.BadRequestWithDetails("INVALID_REQUEST", "Invalid request format", err.Error()))
	c.Abort()
}

// idParam parses a positive numeric path or query value
func idParam(c *gin.Context, raw, name string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(apperrors.BadRequestWithDetails("INVALID_ID", "Invalid "+name, raw))
		c.Abort()
		return 0, false
	}
	return uint(id), true
}
