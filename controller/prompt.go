package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mystic-backend/logic"
)

// PromptController handles system prompt management
type PromptController struct {
	promptLogic *logic.PromptLogic
}

func NewPromptController(promptLogic *logic.PromptLogic) *PromptController {
	return &PromptController{promptLogic: promptLogic}
}

// ListPrompts handles GET /api/prompts
func (c *PromptController) ListPrompts(ctx *gin.Context) {
	prompts, err := c.promptLogic.ListPrompts()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, prompts)
}

// GetPrompt handles GET /api/prompts/:slug
func (c *PromptController) GetPrompt(ctx *gin.Context) {
	prompt, err := c.promptLogic.GetPrompt(ctx.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, logic.ErrUnknownService):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no prompt configured"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	ctx.JSON(http.StatusOK, prompt)
}

// SavePrompt handles PUT /api/prompts/:slug
func (c *PromptController) SavePrompt(ctx *gin.Context) {
	type request struct {
		Content string `json:"content" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := c.promptLogic.SavePrompt(ctx.Param("slug"), req.Content)
	if err != nil {
		if errors.Is(err, logic.ErrUnknownService) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, prompt)
}
