package lifecycle

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoordinatorContext(t *testing.T) {
	c := New()
	select {
	case <-c.Context().Done():
		t.Fatal("context done before shutdown")
	default:
	}

	if err := c.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	select {
	case <-c.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	c := New()
	var drained atomic.Bool
	c.OnShutdown(func() {
		<-c.Context().Done()
		drained.Store(true)
	})

	if err := c.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if !drained.Load() {
		t.Error("shutdown hook did not complete before Shutdown returned")
	}
}

func TestShutdownTimeout(t *testing.T) {
	c := New()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	c.OnShutdown(func() {
		<-release
	})

	if err := c.Shutdown(10 * time.Millisecond); err == nil {
		t.Error("expected timeout error from a stuck hook")
	}
}

func TestWaitUnblocksOnShutdown(t *testing.T) {
	c := New()
	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	if err := c.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after shutdown")
	}
}
