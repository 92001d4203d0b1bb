package api

import (
	"net/http"

	"chatbot-evaluation/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ResultsController exposes evaluation results
type ResultsController struct {
	results *service.ResultsService
}

// NewResultsController creates a new results controller
func NewResultsController(results *service.ResultsService) *ResultsController {
	return &ResultsController{results: results}
}

// RegisterRoutes registers the routes for the results controller
func (c *ResultsController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/results/:evaluation_id", c.GetResults)
}

// GetResults returns the read-only projection of an evaluation
func (c *ResultsController) GetResults(ctx *gin.Context) {
	id, ok := idParam(ctx, ctx.Param("evaluation_id"), "evaluation id")
	if !ok {
		return
	}

	results, err := c.results.Get(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}
