package services

import (
	"encoding/json"
	"time"

	"github.com/luowen/postpilot/internal/models"
	"github.com/luowen/postpilot/pkg/logger"
	"gorm.io/gorm"
)

// RunLogService appends scheduler decisions to the run_logs audit trail and
// mirrors them to the process log.
type RunLogService struct {
	db *gorm.DB
}

func NewRunLogService(db *gorm.DB) *RunLogService {
	return &RunLogService{db: db}
}

func (s *RunLogService) Info(runID, account, message string, meta interface{}) {
	s.write(models.RunLogInfo, runID, account, message, meta)
}

func (s *RunLogService) Success(runID, account, message string, meta interface{}) {
	s.write(models.RunLogSuccess, runID, account, message, meta)
}

func (s *RunLogService) Warn(runID, account, message string, meta interface{}) {
	s.write(models.RunLogWarn, runID, account, message, meta)
}

func (s *RunLogService) Error(runID, account, message string, meta interface{}) {
	s.write(models.RunLogError, runID, account, message, meta)
}

func (s *RunLogService) Debug(runID, account, message string, meta interface{}) {
	s.write(models.RunLogDebug, runID, account, message, meta)
}

func (s *RunLogService) write(level, runID, account, message string, meta interface{}) {
	var metaStr string
	if meta != nil {
		if b, err := json.Marshal(meta); err == nil {
			metaStr = string(b)
		}
	}

	entry := &models.RunLog{
		RunID:     runID,
		Level:     level,
		Account:   account,
		Message:   message,
		Metadata:  metaStr,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		logger.Errorf("[RunLog] failed to append entry: %v", err)
	}

	event := logger.Info()
	switch level {
	case models.RunLogWarn:
		event = logger.Warn()
	case models.RunLogError:
		event = logger.Error()
	case models.RunLogDebug:
		event = logger.Debug()
	}
	event.
		Str("run_id", runID).
		Str("account", account).
		Str("level", level).
		Msg(message)
}

type RunLogListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	RunID    string `form:"run_id"`
	Level    string `form:"level"`
	Account  string `form:"account"`
}

type RunLogListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Items    []models.RunLog `json:"items"`
}

// List returns paginated run log entries, newest first.
func (s *RunLogService) List(req *RunLogListRequest) (*RunLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.RunLog{})
	if req.RunID != "" {
		query = query.Where("run_id = ?", req.RunID)
	}
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Account != "" {
		query = query.Where("account = ?", req.Account)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []models.RunLog
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&logs).Error; err != nil {
		return nil, err
	}

	return &RunLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}
