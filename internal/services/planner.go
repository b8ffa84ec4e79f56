package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/luowen/postpilot/internal/models"
	"gorm.io/gorm"
)

// candidateBatchSize bounds the catalog query when looking for the next
// item to schedule.
const candidateBatchSize = 10

// PlannerService fills an account's pending queue when nothing real is
// queued: it computes the next free slot from the daily template and picks
// the newest catalog item that is not already pending.
type PlannerService struct {
	db       *gorm.DB
	logs     *RunLogService
	holidays *HolidayService
	now      func() time.Time
}

func NewPlannerService(db *gorm.DB, logs *RunLogService, holidays *HolidayService) *PlannerService {
	return &PlannerService{
		db:       db,
		logs:     logs,
		holidays: holidays,
		now:      time.Now,
	}
}

// Plan runs planner mode for one account. The only mutation it may perform
// is appending one scheduled entry to pending_queue; deployed_queue is
// never touched here.
func (s *PlannerService) Plan(runID string, acct *models.Account, pending []models.PendingItem) error {
	slots := acct.TemplateSlots()
	if len(slots) == 0 {
		s.logs.Warn(runID, acct.Name, "no schedule template configured, cannot auto-schedule", nil)
		return nil
	}

	workday := func(time.Time) bool { return true }
	if acct.WorkdaysOnly {
		workday = func(t time.Time) bool { return s.holidays.IsWorkday(t, acct.Country) }
	}

	target, ok := nextSlot(slots, s.now(), workday)
	if !ok {
		s.logs.Warn(runID, acct.Name, "schedule template has no valid HH:MM entries", map[string]interface{}{
			"template": slots,
		})
		return nil
	}

	// Placeholders carry no id, so the exclusion set is scheduled ids only
	pendingIDs := make(map[string]struct{}, len(pending))
	for _, p := range pending {
		if p.ProductID != "" {
			pendingIDs[p.ProductID] = struct{}{}
		}
	}

	var items []models.CatalogItem
	if err := s.db.Where("account_name = ?", acct.Name).
		Order("created_at DESC").
		Limit(candidateBatchSize).
		Find(&items).Error; err != nil {
		return fmt.Errorf("load catalog candidates: %w", err)
	}

	var candidate *models.CatalogItem
	for i := range items {
		if _, exists := pendingIDs[items[i].ID]; !exists {
			candidate = &items[i]
			break
		}
	}
	if candidate == nil {
		s.logs.Info(runID, acct.Name, "no unscheduled catalog item available", nil)
		return nil
	}

	newPending := append(pending, models.PendingItem{ProductID: candidate.ID, ScheduledAt: target})
	if err := s.db.Model(&models.Account{}).Where("id = ?", acct.ID).
		Update("pending_queue", models.EncodePendingQueue(newPending)).Error; err != nil {
		return fmt.Errorf("persist pending queue: %w", err)
	}

	s.logs.Success(runID, acct.Name, "item scheduled for deployment", map[string]interface{}{
		"product_id": candidate.ID,
		"slot":       target.Format(time.RFC3339),
	})
	return nil
}

// nextSlot computes the next deployment time from a daily "HH:MM" template:
// the first slot strictly after now on the current day, otherwise the
// earliest slot on the next eligible day. Zero-padded 24h strings sort
// chronologically, so a plain string sort is enough.
func nextSlot(slots []string, now time.Time, isWorkday func(time.Time) bool) (time.Time, bool) {
	valid := make([]string, 0, len(slots))
	for _, s := range slots {
		if _, err := time.Parse("15:04", s); err == nil {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return time.Time{}, false
	}
	sort.Strings(valid)

	if isWorkday(now) {
		for _, slot := range valid {
			t := slotOnDay(now, slot)
			if t.After(now) {
				return t, true
			}
		}
	}

	day := now.AddDate(0, 0, 1)
	for i := 0; i < 366 && !isWorkday(day); i++ {
		day = day.AddDate(0, 0, 1)
	}
	return slotOnDay(day, valid[0]), true
}

func slotOnDay(day time.Time, hhmm string) time.Time {
	t, _ := time.Parse("15:04", hhmm)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}
