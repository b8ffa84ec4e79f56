package services

import (
	"testing"

	"github.com/luowen/postpilot/internal/models"
)

func TestRunLogService_SharedRunID(t *testing.T) {
	db := newTestDB(t)
	logs := NewRunLogService(db)

	logs.Info("run-1", "", "run started", nil)
	logs.Success("run-1", "shop-a", "item deployed", map[string]interface{}{"product_id": "p1"})
	logs.Warn("run-1", "shop-b", "lock held", nil)
	logs.Error("run-2", "shop-a", "pipeline failed", nil)

	resp, err := logs.List(&RunLogListRequest{RunID: "run-1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("run-1 should have 3 entries, got %d", resp.Total)
	}
	for _, entry := range resp.Items {
		if entry.RunID != "run-1" {
			t.Errorf("entry %d has run_id %q", entry.ID, entry.RunID)
		}
	}
}

func TestRunLogService_ListFilters(t *testing.T) {
	db := newTestDB(t)
	logs := NewRunLogService(db)

	logs.Info("run-1", "shop-a", "one", nil)
	logs.Error("run-1", "shop-a", "two", nil)
	logs.Error("run-1", "shop-b", "three", nil)

	resp, err := logs.List(&RunLogListRequest{Level: models.RunLogError, Account: "shop-a"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("filtered total = %d, want 1", resp.Total)
	}
	if resp.Items[0].Message != "two" {
		t.Errorf("message = %q, want %q", resp.Items[0].Message, "two")
	}
}

func TestRunLogService_MetadataStoredAsJSON(t *testing.T) {
	db := newTestDB(t)
	logs := NewRunLogService(db)

	logs.Success("run-1", "shop-a", "item deployed", map[string]interface{}{"product_id": "p1"})

	var entry models.RunLog
	if err := db.Where("run_id = ?", "run-1").First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.Metadata != `{"product_id":"p1"}` {
		t.Errorf("metadata = %s", entry.Metadata)
	}
}

func TestRunLogService_ListPagination(t *testing.T) {
	db := newTestDB(t)
	logs := NewRunLogService(db)

	for i := 0; i < 25; i++ {
		logs.Info("run-1", "shop-a", "entry", nil)
	}

	resp, err := logs.List(&RunLogListRequest{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 25 {
		t.Errorf("Total = %d, want 25", resp.Total)
	}
	if len(resp.Items) != 10 {
		t.Errorf("page 2 size = %d, want 10", len(resp.Items))
	}
}
