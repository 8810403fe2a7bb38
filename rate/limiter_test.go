package rate

import (
	"testing"
	"time"
)

func TestLimiterBurstAndRefill(t *testing.T) {
	interval := 10 * time.Millisecond
	l := NewLimiter(1, 1, Every(interval))

	if !l.Check("10.0.0.1") {
		t.Fatal("first check should pass")
	}
	if l.Check("10.0.0.1") {
		t.Fatal("second check within the interval should be throttled")
	}

	// Other clients hold independent buckets.
	if !l.Check("10.0.0.2") {
		t.Fatal("a different client should not be throttled")
	}

	time.Sleep(2 * interval)
	if !l.Check("10.0.0.1") {
		t.Fatal("check after the interval should pass again")
	}
}
