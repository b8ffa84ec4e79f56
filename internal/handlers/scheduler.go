package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/luowen/postpilot/internal/config"
	"github.com/luowen/postpilot/internal/services"
	"github.com/luowen/postpilot/pkg/response"
)

type SchedulerHandler struct {
	schedulerService *services.SchedulerService
	cfg              *config.SchedulerConfig
}

func NewSchedulerHandler(schedulerService *services.SchedulerService, cfg *config.SchedulerConfig) *SchedulerHandler {
	return &SchedulerHandler{
		schedulerService: schedulerService,
		cfg:              cfg,
	}
}

// Trigger starts one scheduler pass. It is guarded by the static bearer
// token from the scheduler config, not by dashboard JWTs, so external cron
// services can call it. Per-account failures are reported in the summary;
// only a run-level fault returns 500.
func (h *SchedulerHandler) Trigger(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		response.Unauthorized(c, "invalid scheduler token")
		return
	}

	summary, err := h.schedulerService.Run(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, summary)
}

func (h *SchedulerHandler) authorized(header string) bool {
	// An unset token disables the endpoint entirely
	if h.cfg.Token == "" {
		return false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}
	return parts[1] == h.cfg.Token
}
