package workflow

import (
	"testing"
	"time"
)

func TestBackoffDelay_NeverExceedsCap(t *testing.T) {
	cap := 2 * time.Second
	for n := 0; n < 10; n++ {
		d := backoffDelay(n, 100*time.Millisecond, cap)
		if d > cap {
			t.Errorf("attempt %d: delay %v exceeds cap %v", n, d, cap)
		}
		if d < 0 {
			t.Errorf("attempt %d: delay %v is negative", n, d)
		}
	}
}

func TestBackoffDelay_GrowsWithAttemptNumber(t *testing.T) {
	base := 50 * time.Millisecond
	cap := time.Minute
	first := backoffDelay(0, base, cap)
	later := backoffDelay(4, base, cap)
	if later <= first {
		t.Errorf("expected later attempt delay (%v) to exceed first (%v)", later, first)
	}
}
