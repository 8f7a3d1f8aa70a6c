package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("compiling...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "compiling...")
	s.Start()
	cancel()

	// The animation goroutine winds down on its own.
	time.Sleep(2 * spinnerInterval)
	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("compiling...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("compiling...")
	s.Start()
	time.Sleep(spinnerInterval)
	s.StopWithSuccess("done")
}
