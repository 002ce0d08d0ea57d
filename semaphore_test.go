package task

import (
	"context"
	"testing"
	"time"
)

func TestSemaphoreBoundsAcquisitions(t *testing.T) {
	sem := NewSemaphore(2)
	ctx := context.Background()

	if err := sem.Acquire(ctx); err != nil {
		t.Fatalf("Acquire 1: %v", err)
	}
	if err := sem.Acquire(ctx); err != nil {
		t.Fatalf("Acquire 2: %v", err)
	}
	if sem.TryAcquire() {
		t.Fatalf("TryAcquire should fail once the semaphore is exhausted")
	}

	sem.Release()
	if !sem.TryAcquire() {
		t.Fatalf("TryAcquire should succeed after a Release")
	}
}

func TestSemaphoreAcquireRespectsContextCancellation(t *testing.T) {
	sem := NewSemaphore(1)
	ctx := context.Background()
	if err := sem.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	cctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := sem.Acquire(cctx); err == nil {
		t.Fatalf("Acquire should fail once ctx is canceled while the semaphore is full")
	}
}

func TestSemaphoreReleaseWithoutAcquirePanics(t *testing.T) {
	sem := NewSemaphore(1)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Release without a matching Acquire to panic")
		}
	}()
	sem.Release()
}
