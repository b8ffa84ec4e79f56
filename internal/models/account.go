package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// DefaultScheduleTemplate is used when an account has no template configured.
var DefaultScheduleTemplate = []string{"09:00", "12:00", "15:00", "18:00", "21:00"}

// Account represents a managed storefront account whose catalog items are
// automatically rewritten, rendered and deployed on a schedule.
//
// PendingQueue and DeployedQueue are JSON array columns. DeployedQueue may
// contain malformed legacy entries; it is only ever interpreted through
// SanitizeDeployedQueue.
type Account struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	AutoEnabled      bool           `gorm:"default:false" json:"auto_enabled"`
	ItemsPerDay      int            `gorm:"default:1" json:"items_per_day"`
	ScheduleTemplate string         `gorm:"type:text" json:"schedule_template"` // JSON array of "HH:MM"
	PendingQueue     string         `gorm:"type:text" json:"pending_queue"`     // JSON array of PendingItem
	DeployedQueue    string         `gorm:"type:text" json:"deployed_queue"`    // raw JSON array, sanitize before use
	CopyPrompt       string         `gorm:"type:text" json:"copy_prompt"`
	Country          string         `gorm:"size:10;default:NONE" json:"country"`
	WorkdaysOnly     bool           `gorm:"default:false" json:"workdays_only"`
	LLMConfigID      *uint          `json:"llm_config_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "accounts" }

// TemplateSlots returns the account's schedule template as a list of "HH:MM"
// strings, falling back to DefaultScheduleTemplate when the column is empty
// or unparseable.
func (a *Account) TemplateSlots() []string {
	if a.ScheduleTemplate == "" {
		return DefaultScheduleTemplate
	}
	var slots []string
	if err := json.Unmarshal([]byte(a.ScheduleTemplate), &slots); err != nil || len(slots) == 0 {
		return DefaultScheduleTemplate
	}
	return slots
}
