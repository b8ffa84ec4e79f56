package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/luowen/postpilot/internal/models"
	"github.com/luowen/postpilot/internal/services"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	// Accounts currently locked by a running pass
	var heldLocks int64
	models.GetDB().Model(&models.AccountLock{}).Count(&heldLocks)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "postpilot",
		"components": gin.H{
			"database":   dbStatus,
			"queue_mode": queueMode,
			"held_locks": heldLocks,
		},
	})
}
