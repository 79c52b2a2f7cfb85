package common

import (
	"context"
	"testing"
)

func TestInterruptContext(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	ctx, cancel := InterruptContext(parent)
	defer cancel()
	if ctx.Err() != nil {
		t.Fatal("canceled too early")
	}
	parentCancel()
	<-ctx.Done()

	// Safe to call more than once.
	cancel()
	cancel()
}
