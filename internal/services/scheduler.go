package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/luowen/postpilot/internal/config"
	"github.com/luowen/postpilot/internal/models"
	"github.com/luowen/postpilot/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SchedulerService coordinates one deployment pass across all enabled
// accounts. Each invocation gets a fresh run ID; every log entry and lock
// row produced by the pass carries it. One account's failure never stops
// the rest of the pass.
type SchedulerService struct {
	db       *gorm.DB
	cfg      *config.SchedulerConfig
	logs     *RunLogService
	locks    *LockService
	planner  *PlannerService
	rewriter Rewriter
	renderer Renderer
	uploader Uploader
	queue    TaskQueue
	now      func() time.Time

	cronScheduler *cron.Cron
	currentEntry  cron.EntryID
}

func NewSchedulerService(
	db *gorm.DB,
	cfg *config.SchedulerConfig,
	logs *RunLogService,
	locks *LockService,
	planner *PlannerService,
	rewriter Rewriter,
	renderer Renderer,
	uploader Uploader,
	queue TaskQueue,
) *SchedulerService {
	return &SchedulerService{
		db:       db,
		cfg:      cfg,
		logs:     logs,
		locks:    locks,
		planner:  planner,
		rewriter: rewriter,
		renderer: renderer,
		uploader: uploader,
		queue:    queue,
		now:      time.Now,
	}
}

// RunSummary is what the trigger endpoint reports back.
type RunSummary struct {
	RunID         string `json:"run_id"`
	AccountsFound int    `json:"accounts_found"`
	Dispatched    int    `json:"dispatched"`
	Failed        int    `json:"failed"`
	Async         bool   `json:"async"`
}

// Run executes one scheduler pass. It lists enabled accounts and dispatches
// each through the task queue; with the sync queue the accounts are
// processed before Run returns, with the async queue they are handed to the
// worker.
func (s *SchedulerService) Run(ctx context.Context) (*RunSummary, error) {
	runID := uuid.NewString()

	var accounts []models.Account
	if err := s.db.Where("auto_enabled = ?", true).Order("id ASC").Find(&accounts).Error; err != nil {
		s.logs.Error(runID, "", "failed to list enabled accounts", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("list enabled accounts: %w", err)
	}

	s.logs.Info(runID, "", "scheduler run started", map[string]interface{}{
		"accounts_found": len(accounts),
	})

	summary := &RunSummary{
		RunID:         runID,
		AccountsFound: len(accounts),
		Async:         s.queue.IsAsync(),
	}

	for _, acct := range accounts {
		task := &DeployTask{RunID: runID, AccountName: acct.Name}
		if err := s.queue.Enqueue(task); err != nil {
			summary.Failed++
			s.logs.Error(runID, acct.Name, "account pass failed", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		summary.Dispatched++
	}

	s.logs.Info(runID, "", "scheduler run finished", map[string]interface{}{
		"dispatched": summary.Dispatched,
		"failed":     summary.Failed,
	})
	return summary, nil
}

// ProcessAccount runs one account's deployment pass: acquire the lock,
// sanitize the queues, pick planner or executor mode, then release the
// lock. Returning nil covers expected no-op outcomes (lock held elsewhere,
// nothing due); an error means the pass genuinely failed.
func (s *SchedulerService) ProcessAccount(ctx context.Context, task *DeployTask) error {
	runID := task.RunID

	var acct models.Account
	if err := s.db.Where("name = ?", task.AccountName).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logs.Warn(runID, task.AccountName, "account no longer exists, skipping", nil)
			return nil
		}
		return fmt.Errorf("load account %s: %w", task.AccountName, err)
	}
	if !acct.AutoEnabled {
		s.logs.Info(runID, acct.Name, "auto deployment disabled, skipping", nil)
		return nil
	}

	acquired, err := s.locks.Acquire(acct.Name, runID)
	if err != nil {
		s.logs.Error(runID, acct.Name, "lock acquisition failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	if !acquired {
		s.logs.Warn(runID, acct.Name, "another run holds the account lock, skipping", nil)
		return nil
	}
	defer func() {
		if err := s.locks.Release(acct.Name); err != nil {
			s.logs.Error(runID, acct.Name, "lock release failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		s.logs.Debug(runID, acct.Name, "lock released", nil)
	}()

	// The pre-lock read only established that the account exists and has
	// auto deployment on. Queue decisions must come from state read inside
	// the critical section: another run may have finished a full pass
	// between that read and the lock insert.
	var fresh models.Account
	if err := s.db.First(&fresh, acct.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logs.Warn(runID, acct.Name, "account deleted while locking, skipping", nil)
			return nil
		}
		return fmt.Errorf("reload account %s: %w", acct.Name, err)
	}
	acct = fresh

	pending := models.DecodePendingQueue(acct.PendingQueue)
	deployed := models.SanitizeDeployedQueue(acct.DeployedQueue)

	// Mode selection: any real scheduled entry means executor mode;
	// placeholders alone leave the account in planner mode.
	hasScheduled := false
	for _, p := range pending {
		if p.Scheduled() {
			hasScheduled = true
			break
		}
	}

	mode := "planner"
	if hasScheduled {
		mode = "executor"
	}
	s.logs.Info(runID, acct.Name, "mode selected", map[string]interface{}{"mode": mode})

	if hasScheduled {
		return s.executePass(ctx, runID, &acct, pending, deployed)
	}
	return s.planner.Plan(runID, &acct, pending)
}

// executePass deploys the first due item in queue order.
func (s *SchedulerService) executePass(ctx context.Context, runID string, acct *models.Account, pending []models.PendingItem, deployed []models.DeployedItem) error {
	now := s.now()

	dueIdx := -1
	for i, p := range pending {
		if p.Scheduled() && !p.ScheduledAt.After(now) {
			dueIdx = i
			break
		}
	}
	if dueIdx == -1 {
		s.logs.Info(runID, acct.Name, "no pending item due yet", nil)
		return nil
	}

	entry := pending[dueIdx]
	item, err := s.runPipeline(ctx, runID, acct, entry.ProductID)
	if errors.Is(err, ErrItemNotFound) {
		// Drop the dangling reference so the queue heals itself; the
		// deployed queue is untouched.
		cleaned := append(append([]models.PendingItem{}, pending[:dueIdx]...), pending[dueIdx+1:]...)
		if uerr := s.db.Model(&models.Account{}).Where("id = ?", acct.ID).
			Update("pending_queue", models.EncodePendingQueue(cleaned)).Error; uerr != nil {
			return fmt.Errorf("clean up missing item %s: %w", entry.ProductID, uerr)
		}
		s.logs.Error(runID, acct.Name, "catalog item missing, removed from pending queue", map[string]interface{}{
			"product_id": entry.ProductID,
		})
		return nil
	}
	if err != nil {
		s.logs.Error(runID, acct.Name, "deploy pipeline failed, item stays pending", map[string]interface{}{
			"product_id": entry.ProductID,
			"error":      err.Error(),
		})
		return err
	}

	// Finalize: both queue columns change in one write so a crash between
	// them can never record the item as both pending and deployed.
	newPending := append(append([]models.PendingItem{}, pending[:dueIdx]...), pending[dueIdx+1:]...)
	newDeployed := append(deployed, models.DeployedItem{ID: item.ID, DeployedAt: now})
	if err := s.db.Model(&models.Account{}).Where("id = ?", acct.ID).Updates(map[string]interface{}{
		"pending_queue":  models.EncodePendingQueue(newPending),
		"deployed_queue": models.EncodeDeployedQueue(newDeployed),
	}).Error; err != nil {
		s.logs.Error(runID, acct.Name, "queue finalize write failed", map[string]interface{}{
			"product_id": item.ID,
			"error":      err.Error(),
		})
		return fmt.Errorf("finalize queues: %w", err)
	}

	s.logs.Success(runID, acct.Name, "item deployed", map[string]interface{}{
		"product_id":  item.ID,
		"image_url":   item.ImageURL,
		"deployed_at": now.Format(time.RFC3339),
	})
	return nil
}

// runPipeline drives rewrite -> render -> upload -> persist for one catalog
// item. Nothing in here touches the queues; any failure leaves the item
// pending so a later pass can retry.
func (s *SchedulerService) runPipeline(ctx context.Context, runID string, acct *models.Account, productID string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := s.db.Where("id = ?", productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("load catalog item %s: %w", productID, err)
	}

	text, err := s.rewriter.Rewrite(ctx, acct, &item)
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}

	imageData, err := s.renderer.Render(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	imageURL, err := s.uploader.Upload(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	if err := s.db.Model(&item).Updates(map[string]interface{}{
		"rewritten_text": text,
		"image_url":      imageURL,
		"ai_generated":   true,
	}).Error; err != nil {
		return nil, fmt.Errorf("persist catalog item %s: %w", productID, err)
	}

	item.RewrittenText = text
	item.ImageURL = imageURL
	item.AIGenerated = true
	return &item, nil
}

// StartScheduler begins periodic runs on the configured cron cadence.
func (s *SchedulerService) StartScheduler() {
	if !s.cfg.Enabled {
		logger.Infof("[Scheduler] Disabled by config, cron not started")
		return
	}

	s.cronScheduler = cron.New()

	spec := s.cfg.Cron
	if spec == "" {
		spec = "*/5 * * * *"
	}

	entryID, err := s.cronScheduler.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			logger.Errorf("[Scheduler] Cron run failed: %v", err)
		}
	})
	if err != nil {
		logger.Errorf("[Scheduler] Invalid cron spec %q: %v", spec, err)
		return
	}
	s.currentEntry = entryID

	s.cronScheduler.Start()
	logger.Infof("[Scheduler] Cron started with spec %q", spec)
}

// StopScheduler halts periodic runs.
func (s *SchedulerService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}
