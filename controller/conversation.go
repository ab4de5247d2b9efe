package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mystic-backend/middleware"
	"mystic-backend/store"
)

// ConversationController serves the conversation-store API. Requests with
// a bearer token use the durable per-user backend; anonymous requests
// carry an X-Session-Id header and use the ephemeral in-memory backend.
// The two are disjoint: logging in does not migrate a session's
// conversation.
type ConversationController struct {
	remote store.Store
	local  store.Store
	secret string
}

func NewConversationController(remote, local store.Store, secret string) *ConversationController {
	return &ConversationController{remote: remote, local: local, secret: secret}
}

// resolveStore picks the backend once per request from the credential.
func (c *ConversationController) resolveStore(ctx *gin.Context) (store.Store, string, bool) {
	if header := ctx.GetHeader("Authorization"); header != "" {
		identity, err := middleware.VerifyBearer(c.secret, header)
		if err != nil {
			code := "auth_invalid"
			if errors.Is(err, middleware.ErrExpiredToken) {
				code = "auth_expired"
			}
			ctx.JSON(http.StatusUnauthorized, gin.H{
				"error": fmt.Sprintf("unauthorized: %v", err),
				"code":  code,
			})
			return nil, "", false
		}
		return c.remote, identity.Subject, true
	}

	if sessionID := ctx.GetHeader("X-Session-Id"); sessionID != "" {
		return c.local, sessionID, true
	}

	ctx.JSON(http.StatusUnauthorized, gin.H{
		"error": "unauthorized: no auth token or session id provided",
		"code":  "auth_missing",
	})
	return nil, "", false
}

// ListConversations handles GET /api/conversations?service=<slug>
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	serviceSlug := ctx.Query("service")
	if serviceSlug == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "service query parameter is required"})
		return
	}

	backend, owner, ok := c.resolveStore(ctx)
	if !ok {
		return
	}

	convos, err := backend.ListConversations(ctx.Request.Context(), owner, serviceSlug)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, convos)
}

// CreateConversation handles POST /api/conversations
func (c *ConversationController) CreateConversation(ctx *gin.Context) {
	type request struct {
		ServiceSlug string `json:"serviceSlug" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	backend, owner, ok := c.resolveStore(ctx)
	if !ok {
		return
	}

	convo, err := backend.CreateConversation(ctx.Request.Context(), owner, req.ServiceSlug)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, convo)
}

// GetMessages handles GET /api/conversations/:id/messages
func (c *ConversationController) GetMessages(ctx *gin.Context) {
	backend, owner, ok := c.resolveStore(ctx)
	if !ok {
		return
	}

	messages, err := backend.LoadMessages(ctx.Request.Context(), owner, ctx.Param("id"))
	if err != nil {
		writeStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

// AppendMessage handles POST /api/conversations/:id/messages
func (c *ConversationController) AppendMessage(ctx *gin.Context) {
	type request struct {
		Role    string `json:"role" binding:"required,oneof=user assistant"`
		Content string `json:"content" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	backend, owner, ok := c.resolveStore(ctx)
	if !ok {
		return
	}

	msg, err := backend.AppendMessage(ctx.Request.Context(), owner, ctx.Param("id"), req.Role, req.Content)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, msg)
}
