package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mystic-backend/logic"
	"mystic-backend/middleware"
)

// UserController handles user profile requests
type UserController struct {
	userLogic *logic.UserLogic
}

func NewUserController(userLogic *logic.UserLogic) *UserController {
	return &UserController{userLogic: userLogic}
}

// GetUser handles GET /api/user
func (c *UserController) GetUser(ctx *gin.Context) {
	identity, ok := middleware.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "auth_missing"})
		return
	}

	profile, err := c.userLogic.GetProfile(identity.Subject, identity.Email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}
