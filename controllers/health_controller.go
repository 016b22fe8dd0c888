package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger lo implementa el data context de gorm
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	service string
	db      Pinger
}

// NewHealthController: db puede ser nil (storage en archivos)
func NewHealthController(service string, db Pinger) *HealthController {
	return &HealthController{service: service, db: db}
}

// HealthCheck maneja GET /health
func (ctrl *HealthController) HealthCheck(c *gin.Context) {
	if ctrl.db != nil {
		if err := ctrl.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": ctrl.service,
				"error":   err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ctrl.service,
	})
}
