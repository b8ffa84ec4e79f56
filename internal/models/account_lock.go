package models

import "time"

// AccountLock is the per-account mutual-exclusion record. Existence of a row
// means the account is being processed; the unique index makes a second
// concurrent acquire fail at the store level rather than overwrite.
//
// ExpiresAt is only honored when a lock TTL is configured. Without a TTL a
// crashed process leaves the row behind until cleared by an operator.
type AccountLock struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AccountName string     `gorm:"uniqueIndex;size:100;not null" json:"account_name"`
	LockedBy    string     `gorm:"size:100" json:"locked_by"` // run ID of the holder
	LockedAt    time.Time  `json:"locked_at"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"`
}

func (AccountLock) TableName() string { return "account_locks" }
