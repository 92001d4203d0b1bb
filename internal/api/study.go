package api

import (
	"net/http"
	"time"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// StudyController handles participant sessions and evaluations
type StudyController struct {
	evaluations *service.EvaluationService
}

// NewStudyController creates a new study controller
func NewStudyController(evaluations *service.EvaluationService) *StudyController {
	return &StudyController{evaluations: evaluations}
}

// RegisterRoutes registers the routes for the study controller
func (c *StudyController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/session", c.CreateSession)
	router.POST("/evaluation", c.StartEvaluation)
	router.GET("/evaluation/:id", c.GetEvaluation)
}

type evaluationResponse struct {
	EvaluationID  uint                 `json:"evaluation_id"`
	LanguageModel models.LanguageModel `json:"language_model"`
	UseCase       models.UseCase       `json:"use_case"`
	PromptStyle   models.PromptStyle   `json:"prompt_style"`
	TopicPlan     []models.UseCase     `json:"topic_plan"`
	GoalText      string               `json:"goal_text"`
	StartTime     time.Time            `json:"start_time"`
	PreSurveyAt   *time.Time           `json:"pre_survey_at"`
	EndTime       *time.Time           `json:"end_time"`
}

// CreateSession registers an anonymous participant
func (c *StudyController) CreateSession(ctx *gin.Context) {
	user, err := c.evaluations.CreateSession(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"session_id": user.SessionID})
}

// StartEvaluation assigns a condition to the participant's new evaluation
func (c *StudyController) StartEvaluation(ctx *gin.Context) {
	var request struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	evaluation, err := c.evaluations.StartEvaluation(ctx.Request.Context(), request.SessionID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	c.respondEvaluation(ctx, http.StatusCreated, evaluation)
}

// GetEvaluation returns an evaluation with its condition
func (c *StudyController) GetEvaluation(ctx *gin.Context) {
	id, ok := idParam(ctx, ctx.Param("id"), "evaluation id")
	if !ok {
		return
	}

	evaluation, err := c.evaluations.GetEvaluation(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	c.respondEvaluation(ctx, http.StatusOK, evaluation)
}

func (c *StudyController) respondEvaluation(ctx *gin.Context, status int, evaluation *models.Evaluation) {
	goal, err := c.evaluations.GoalText(evaluation.UseCase)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(status, evaluationResponse{
		EvaluationID:  evaluation.ID,
		LanguageModel: evaluation.LanguageModel,
		UseCase:       evaluation.UseCase,
		PromptStyle:   evaluation.PromptStyle,
		TopicPlan:     evaluation.TopicPlan,
		GoalText:      goal,
		StartTime:     evaluation.StartTime,
		PreSurveyAt:   evaluation.PreSurveyAt,
		EndTime:       evaluation.EndTime,
	})
}
