package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mystic-backend/logic"
	"mystic-backend/middleware"
	"mystic-backend/pkg"
)

// ChatController handles the chat turn endpoint
type ChatController struct {
	chatLogic *logic.ChatLogic
}

func NewChatController(chatLogic *logic.ChatLogic) *ChatController {
	return &ChatController{chatLogic: chatLogic}
}

// Chat handles POST /api/chat. Tokens are relayed to the caller as SSE
// "message" events while the provider produces them; the stream ends with
// a "done" event.
func (c *ChatController) Chat(ctx *gin.Context) {
	type requestMessage struct {
		Role    string `json:"role" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	type request struct {
		Messages    []requestMessage `json:"messages" binding:"required,min=1"`
		ServiceSlug string           `json:"serviceSlug" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, ok := middleware.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "auth_missing"})
		return
	}

	history := make([]pkg.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, pkg.ChatMessage{Role: m.Role, Content: m.Content})
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	streamed := false
	err := c.chatLogic.HandleTurn(ctx.Request.Context(), identity.Subject, identity.Email, req.ServiceSlug, history, func(delta string) error {
		streamed = true
		ctx.SSEvent("message", delta)
		ctx.Writer.Flush()
		return nil
	})
	if err != nil {
		c.writeError(ctx, err, streamed)
		return
	}

	ctx.SSEvent("done", "")
	ctx.Writer.Flush()
}

func (c *ChatController) writeError(ctx *gin.Context, err error, streamed bool) {
	status := http.StatusInternalServerError
	var quotaErr *logic.QuotaError
	if errors.As(err, &quotaErr) {
		status = http.StatusTooManyRequests
	}

	if streamed {
		// Headers are already on the wire; all that is left is to tell
		// the client the stream died.
		ctx.SSEvent("error", err.Error())
		ctx.Writer.Flush()
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
