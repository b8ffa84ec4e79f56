package main

import (
	"time"

	"github.com/luowen/postpilot/internal/config"
	"github.com/luowen/postpilot/internal/models"
	"github.com/luowen/postpilot/internal/services"
	"github.com/luowen/postpilot/internal/utils"
	"github.com/luowen/postpilot/pkg/logger"
)

// appServices holds all initialized services needed by the application.
type appServices struct {
	cfg              *config.Config
	schedulerService *services.SchedulerService
	authService      *services.AuthService
	taskQueue        services.TaskQueue
	worker           *services.Worker
}

// bootstrap initializes all application dependencies: database, services,
// the task queue and the cron scheduler.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Deployment pipeline collaborators
	runLogService := services.NewRunLogService(db)
	lockService := services.NewLockService(db, time.Duration(cfg.Scheduler.LockTTLMinutes)*time.Minute)
	plannerService := services.NewPlannerService(db, runLogService, services.NewHolidayService())
	copyService := services.NewCopyService(db, &cfg.OpenAI)
	imageService := services.NewImageService(&cfg.OpenAI)
	mediaService := services.NewMediaService(&cfg.Media)

	// Task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)

	schedulerService := services.NewSchedulerService(
		db, &cfg.Scheduler, runLogService, lockService, plannerService,
		copyService, imageService, mediaService, taskQueue,
	)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(schedulerService.ProcessAccount)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(schedulerService.ProcessAccount)
			if err := worker.Start(); err != nil {
				logger.Fatalf("Failed to start worker: %v", err)
			}
		}
	}

	// Create default admin user
	authService := services.NewAuthService(db, &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	// Start the cron trigger
	schedulerService.StartScheduler()

	return &appServices{
		cfg:              cfg,
		schedulerService: schedulerService,
		authService:      authService,
		taskQueue:        taskQueue,
		worker:           worker,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.schedulerService.StopScheduler()
	logger.Info().Msg("Scheduler stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
