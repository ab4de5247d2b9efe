package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mystic-backend/models"
)

// ServiceController serves the divination service catalogue
type ServiceController struct{}

func NewServiceController() *ServiceController {
	return &ServiceController{}
}

// ListServices handles GET /api/services
func (c *ServiceController) ListServices(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Services)
}

// Health handles GET /healthz
func (c *ServiceController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
