package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if len(h.hooks) != 0 {
		t.Errorf("new handler has %d hooks", len(h.hooks))
	}
}

func TestHandler_Shutdown_OrderAndOnce(t *testing.T) {
	h := NewHandler(time.Second)

	var order []int
	for i := 1; i <= 3; i++ {
		h.OnShutdown(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := h.Shutdown(); err != nil {
		t.Fatalf("second Shutdown() error = %v", err)
	}

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("hook order = %v, want [3 2 1] exactly once", order)
	}
}

func TestHandler_Shutdown_HookError(t *testing.T) {
	h := NewHandler(time.Second)
	want := errors.New("save history")

	ran := 0
	h.OnShutdown(func(ctx context.Context) error { ran++; return nil })
	h.OnShutdown(func(ctx context.Context) error { ran++; return want })

	if err := h.Shutdown(); !errors.Is(err, want) {
		t.Errorf("Shutdown() = %v, want %v", err, want)
	}
	if ran != 2 {
		t.Errorf("%d hooks ran, a failing hook must not stop the rest", ran)
	}
	if err := h.Shutdown(); !errors.Is(err, want) {
		t.Errorf("repeated Shutdown() = %v, want the first result", err)
	}
}

func TestHandler_Shutdown_HookDeadline(t *testing.T) {
	h := NewHandler(50 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("hook context has no deadline")
		}
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Error(err)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(ctx context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Errorf("expected 10 hooks, got %d", len(h.hooks))
	}
}

func TestHandler_ConcurrentShutdown(t *testing.T) {
	h := NewHandler(time.Second)
	calls := 0
	h.OnShutdown(func(ctx context.Context) error { calls++; return nil })

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Shutdown()
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
}

func TestHandler_Context(t *testing.T) {
	h := NewHandler(time.Second)
	parent, cancelParent := context.WithCancel(context.Background())

	ctx, stop := h.Context(parent)
	defer stop()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should follow its parent")
	}
}
