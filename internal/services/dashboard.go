package services

import (
	"time"

	"github.com/luowen/postpilot/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	TotalAccounts   int64 `json:"total_accounts"`
	EnabledAccounts int64 `json:"enabled_accounts"`
	TotalItems      int64 `json:"total_items"`
	AIGenerated     int64 `json:"ai_generated"`
	DeploysToday    int64 `json:"deploys_today"`
	ErrorsToday     int64 `json:"errors_today"`
	HeldLocks       int64 `json:"held_locks"`
}

// GetStats aggregates headline numbers for the dashboard landing page.
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Account{}).Count(&stats.TotalAccounts).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.Account{}).Where("auto_enabled = ?", true).Count(&stats.EnabledAccounts)
	s.db.Model(&models.CatalogItem{}).Count(&stats.TotalItems)
	s.db.Model(&models.CatalogItem{}).Where("ai_generated = ?", true).Count(&stats.AIGenerated)

	today := time.Now().Truncate(24 * time.Hour)
	s.db.Model(&models.RunLog{}).
		Where("level = ? AND message = ? AND created_at >= ?", models.RunLogSuccess, "item deployed", today).
		Count(&stats.DeploysToday)
	s.db.Model(&models.RunLog{}).
		Where("level = ? AND created_at >= ?", models.RunLogError, today).
		Count(&stats.ErrorsToday)
	s.db.Model(&models.AccountLock{}).Count(&stats.HeldLocks)

	return stats, nil
}
