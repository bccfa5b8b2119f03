package signal

import (
	"testing"
	"time"
)

func TestRequestLimiter(t *testing.T) {
	rl := NewRequestLimiter(2, time.Minute)

	if !rl.Allow("sid-1") || !rl.Allow("sid-1") {
		t.Fatal("attempts under the limit were blocked")
	}
	if rl.Allow("sid-1") {
		t.Error("attempt over the limit was allowed")
	}
	if !rl.Allow("sid-2") {
		t.Error("limit leaked across connections")
	}
}

func TestRequestLimiterWindowSlides(t *testing.T) {
	rl := NewRequestLimiter(1, 20*time.Millisecond)

	if !rl.Allow("sid-1") {
		t.Fatal("first attempt blocked")
	}
	if rl.Allow("sid-1") {
		t.Fatal("second immediate attempt allowed")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("sid-1") {
		t.Error("attempt after the window expired was blocked")
	}
}
