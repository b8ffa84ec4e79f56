package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/luowen/postpilot/internal/config"
	"github.com/luowen/postpilot/internal/models"
	"github.com/luowen/postpilot/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubRewriter struct{}

func (stubRewriter) Rewrite(ctx context.Context, acct *models.Account, item *models.CatalogItem) (string, error) {
	return "copy", nil
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, text string) ([]byte, error) {
	return []byte{1}, nil
}

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, data []byte) (string, error) {
	return "https://cdn.example.com/x.png", nil
}

func newTriggerRouter(t *testing.T, token string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.CatalogItem{}, &models.AccountLock{}, &models.RunLog{}, &models.LLMConfig{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.SchedulerConfig{Token: token}
	logs := services.NewRunLogService(db)
	locks := services.NewLockService(db, 0)
	planner := services.NewPlannerService(db, logs, services.NewHolidayService())
	queue := services.NewSyncQueue()
	scheduler := services.NewSchedulerService(db, cfg, logs, locks, planner,
		stubRewriter{}, stubRenderer{}, stubUploader{}, queue)
	queue.SetProcessor(scheduler.ProcessAccount)

	router := gin.New()
	handler := NewSchedulerHandler(scheduler, cfg)
	router.GET("/api/scheduler/run", handler.Trigger)
	return router
}

func TestSchedulerTrigger_Auth(t *testing.T) {
	tests := []struct {
		name       string
		cfgToken   string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid token",
			cfgToken:   "secret-token",
			authHeader: "Bearer secret-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong token",
			cfgToken:   "secret-token",
			authHeader: "Bearer wrong",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header",
			cfgToken:   "secret-token",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			cfgToken:   "secret-token",
			authHeader: "secret-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "endpoint disabled when no token configured",
			cfgToken:   "",
			authHeader: "Bearer anything",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTriggerRouter(t, tt.cfgToken)

			req := httptest.NewRequest(http.MethodGet, "/api/scheduler/run", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestSchedulerTrigger_ReturnsSummary(t *testing.T) {
	router := newTriggerRouter(t, "secret-token")

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler/run", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Code int                 `json:"code"`
		Data services.RunSummary `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.RunID == "" {
		t.Error("run summary should carry a run id")
	}
	if body.Data.Async {
		t.Error("sync queue should report async = false")
	}
}
