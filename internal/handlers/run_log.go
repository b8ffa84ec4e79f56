package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/luowen/postpilot/internal/services"
	"github.com/luowen/postpilot/pkg/response"
	"gorm.io/gorm"
)

type RunLogHandler struct {
	runLogService *services.RunLogService
}

func NewRunLogHandler(db *gorm.DB) *RunLogHandler {
	return &RunLogHandler{
		runLogService: services.NewRunLogService(db),
	}
}

// List returns paginated run log entries, filterable by run id, level and
// account.
func (h *RunLogHandler) List(c *gin.Context) {
	var req services.RunLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.runLogService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}
