package api

import (
	"errors"
	"net/http"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatController handles chat turns, topics and chat sessions
type ChatController struct {
	evaluations *service.EvaluationService
	chat        *service.ChatService
}

// NewChatController creates a new chat controller
func NewChatController(evaluations *service.EvaluationService, chat *service.ChatService) *ChatController {
	return &ChatController{evaluations: evaluations, chat: chat}
}

// RegisterRoutes registers the routes for the chat controller
func (c *ChatController) RegisterRoutes(router *gin.RouterGroup) {
	chatGroup := router.Group("/chat")
	{
		chatGroup.POST("", c.SendEvaluationMessage)
		chatGroup.GET("/next-topic", c.NextTopic)
		chatGroup.POST("/session", c.StartChatSession)
		chatGroup.POST("/message", c.SendChatMessage)
		chatGroup.GET("/session/:id/messages", c.GetSessionMessages)
	}
}

// SendEvaluationMessage relays a participant message of a single-topic
// evaluation to its model
func (c *ChatController) SendEvaluationMessage(ctx *gin.Context) {
	var request struct {
		EvaluationID uint   `json:"evaluation_id" binding:"required"`
		Message      string `json:"message"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	exchange, err := c.chat.SendEvaluationMessage(ctx.Request.Context(), request.EvaluationID, request.Message)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respondExchange(ctx, exchange)
}

var errMissingChatSessionID = errors.New("chat_session_id is required")

// SendChatMessage relays a participant message of a chat session. The id is
// read from chat_session_id; the camelCase chatSessionId sent by older
// clients is still accepted and loses when both are present.
func (c *ChatController) SendChatMessage(ctx *gin.Context) {
	var request struct {
		ChatSessionID       *uint  `json:"chat_session_id"`
		LegacyChatSessionID *uint  `json:"chatSessionId"`
		Message             string `json:"message"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	id := request.ChatSessionID
	if id == nil {
		id = request.LegacyChatSessionID
	}
	if id == nil || *id == 0 {
		badRequest(ctx, errMissingChatSessionID)
		return
	}

	exchange, err := c.chat.SendChatMessage(ctx.Request.Context(), *id, request.Message)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respondExchange(ctx, exchange)
}

func respondExchange(ctx *gin.Context, exchange *service.Exchange) {
	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"content":      exchange.BotMessage.Content,
		"reasoning":    exchange.BotMessage.Reasoning,
		"timestamp":    exchange.BotMessage.CreatedAt,
		"user_message": exchange.UserMessage,
		"bot_message":  exchange.BotMessage,
	})
}

// NextTopic returns the next topic of an evaluation's plan
func (c *ChatController) NextTopic(ctx *gin.Context) {
	id, ok := idParam(ctx, ctx.Query("evaluation_id"), "evaluation id")
	if !ok {
		return
	}

	topic, err := c.evaluations.NextTopic(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// StartChatSession opens or resumes the chat session of a topic
func (c *ChatController) StartChatSession(ctx *gin.Context) {
	var request struct {
		EvaluationID  uint                  `json:"evaluation_id" binding:"required"`
		UseCase       *models.UseCase       `json:"use_case"`
		LanguageModel *models.LanguageModel `json:"language_model"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	start, err := c.evaluations.StartChatSession(ctx.Request.Context(), service.StartChatSessionRequest{
		EvaluationID:  request.EvaluationID,
		UseCase:       request.UseCase,
		LanguageModel: request.LanguageModel,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	status := http.StatusCreated
	if start.Resumed {
		status = http.StatusOK
	}
	ctx.JSON(status, gin.H{
		"chat_session_id": start.Session.ID,
		"evaluation_id":   start.Session.EvaluationID,
		"use_case":        start.Session.UseCase,
		"prompt_style":    start.Session.PromptStyle,
		"language_model":  start.Session.LanguageModel,
		"goal_text":       start.GoalText,
		"start_time":      start.Session.StartTime,
		"resumed":         start.Resumed,
	})
}

// GetSessionMessages returns the ordered transcript of a chat session
func (c *ChatController) GetSessionMessages(ctx *gin.Context) {
	id, ok := idParam(ctx, ctx.Param("id"), "chat session id")
	if !ok {
		return
	}

	messages, err := c.chat.ListSessionMessages(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"chat_session_id": id,
		"messages":        messages,
		"count":           len(messages),
	})
}
