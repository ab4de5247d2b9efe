package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mystic-backend/logic"
	"mystic-backend/store"
)

// writeStoreError maps conversation-store failures to HTTP statuses.
func writeStoreError(ctx *gin.Context, err error) {
	var quotaErr *logic.QuotaError
	switch {
	case errors.As(err, &quotaErr):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, logic.ErrUnknownService):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
