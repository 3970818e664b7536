package controller

import (
	"course_platform_backend/internal/repository"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Store *repository.Store
}

func NewHealthController(store *repository.Store) *HealthController {
	return &HealthController{Store: store}
}

// HealthCheck reports liveness plus store reachability. The process stays up
// when the store is down, so a degraded store returns 200 with store=false.
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"store":  c.Store.IsConnected(),
	})
}
