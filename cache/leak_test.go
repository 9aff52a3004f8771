package cache

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

// TestCloseStopsExpiryLoop guards against the expiry loop's goroutine
// outliving its Cache.
func TestCloseStopsExpiryLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := New(Options{TTL: time.Minute})
	Store(c, testKey("a"), 1)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// give the loop's select a moment to observe stopCh closing
	time.Sleep(20 * time.Millisecond)
}
