package api

import (
	"net/http"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/service"
	apperrors "chatbot-evaluation/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SurveyController serves survey questions and accepts submissions
type SurveyController struct {
	surveys *service.SurveyService
}

// NewSurveyController creates a new survey controller
func NewSurveyController(surveys *service.SurveyService) *SurveyController {
	return &SurveyController{surveys: surveys}
}

// RegisterRoutes registers the routes for the survey controller
func (c *SurveyController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/questions", c.ListQuestions)
	router.POST("/survey/:phase", c.Submit)
}

// ListQuestions returns the active questions of a phase
func (c *SurveyController) ListQuestions(ctx *gin.Context) {
	phase, ok := phaseParam(ctx, ctx.Query("type"))
	if !ok {
		return
	}

	questions, err := c.surveys.ListQuestions(ctx.Request.Context(), phase)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// Submit records a survey phase for an evaluation or chat session
func (c *SurveyController) Submit(ctx *gin.Context) {
	phase, ok := phaseParam(ctx, ctx.Param("phase"))
	if !ok {
		return
	}

	var request struct {
		EvaluationID  uint             `json:"evaluation_id" binding:"required"`
		ChatSessionID *uint            `json:"chat_session_id"`
		Responses     []service.Answer `json:"responses"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	saved, err := c.surveys.Submit(ctx.Request.Context(), service.Submission{
		Phase:         phase,
		EvaluationID:  request.EvaluationID,
		ChatSessionID: request.ChatSessionID,
		Answers:       request.Responses,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":    "success",
		"phase":     phase,
		"responses": saved,
	})
}

func phaseParam(ctx *gin.Context, raw string) (models.SurveyPhase, bool) {
	phase, err := models.ParseSurveyPhase(raw)
	if err != nil {
		_ = ctx.Error(apperrors.BadRequestWithDetails("INVALID_PHASE", "Survey phase must be pre or post", raw))
		ctx.Abort()
		return "", false
	}
	return phase, true
}
