package services

import (
	"context"
	"testing"
)

func TestTaskTypeDeploy_Constant(t *testing.T) {
	if TaskTypeDeploy != "account:deploy" {
		t.Errorf("TaskTypeDeploy = %q, expected %q", TaskTypeDeploy, "account:deploy")
	}
}

func TestSyncQueue_New(t *testing.T) {
	queue := NewSyncQueue()
	if queue == nil {
		t.Error("NewSyncQueue should not return nil")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	queue := NewSyncQueue()
	err := queue.Close()
	if err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	task := &DeployTask{
		RunID:       "run-1",
		AccountName: "shop-a",
	}

	err := queue.Enqueue(task)
	if err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_EnqueueRunsInline(t *testing.T) {
	queue := NewSyncQueue()

	var got *DeployTask
	queue.SetProcessor(func(ctx context.Context, task *DeployTask) error {
		got = task
		return nil
	})

	task := &DeployTask{RunID: "run-2", AccountName: "shop-b"}
	if err := queue.Enqueue(task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if got == nil {
		t.Fatal("processor should run before Enqueue returns")
	}
	if got.RunID != "run-2" || got.AccountName != "shop-b" {
		t.Errorf("processor got task %+v", got)
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}
