package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/luowen/postpilot/internal/models"
	"gorm.io/gorm"
)

// LockService provides per-account mutual exclusion backed by the unique
// index on account_locks.account_name. Because the store enforces
// uniqueness, the lock holds across processes and machines.
type LockService struct {
	db  *gorm.DB
	ttl time.Duration // 0 = lock rows never expire
}

func NewLockService(db *gorm.DB, ttl time.Duration) *LockService {
	return &LockService{db: db, ttl: ttl}
}

// Acquire attempts to take the lock for an account. It returns (false, nil)
// when another holder already has it; that is an expected concurrency
// outcome, not an error.
func (s *LockService) Acquire(accountName, runID string) (bool, error) {
	now := time.Now()

	if s.ttl > 0 {
		// Clear a stale row left by a crashed holder before inserting
		if err := s.db.Where("account_name = ? AND expires_at IS NOT NULL AND expires_at < ?", accountName, now).
			Delete(&models.AccountLock{}).Error; err != nil {
			return false, fmt.Errorf("clear expired lock: %w", err)
		}
	}

	lock := models.AccountLock{
		AccountName: accountName,
		LockedBy:    runID,
		LockedAt:    now,
	}
	if s.ttl > 0 {
		expires := now.Add(s.ttl)
		lock.ExpiresAt = &expires
	}

	if err := s.db.Create(&lock).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	return true, nil
}

// Release drops the lock row for an account. Safe to call when no row
// exists.
func (s *LockService) Release(accountName string) error {
	if err := s.db.Where("account_name = ?", accountName).Delete(&models.AccountLock{}).Error; err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
