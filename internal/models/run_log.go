package models

import "time"

// Run log levels
const (
	RunLogInfo    = "INFO"
	RunLogSuccess = "SUCCESS"
	RunLogWarn    = "WARN"
	RunLogError   = "ERROR"
	RunLogDebug   = "DEBUG"
)

// RunLog is the append-only audit trail of scheduler decisions. All entries
// of one coordinator invocation share a RunID.
type RunLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunID     string    `gorm:"index;size:36;not null" json:"run_id"`
	Level     string    `gorm:"size:10;index" json:"level"`
	Account   string    `gorm:"size:100;index" json:"account"`
	Message   string    `gorm:"type:text" json:"message"`
	Metadata  string    `gorm:"type:text" json:"metadata"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (RunLog) TableName() string { return "run_logs" }
