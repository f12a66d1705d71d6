package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(Config{RequestsPerMinute: 3})
	defer l.Stop()

	const chatID = int64(42)

	for i := 0; i < 3; i++ {
		if !l.Allow(chatID) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if l.Allow(chatID) {
		t.Error("request over the limit should be rejected")
	}
}

func TestLimiter_PerChatIsolation(t *testing.T) {
	l := New(Config{RequestsPerMinute: 1})
	defer l.Stop()

	if !l.Allow(1) {
		t.Fatal("first chat should be allowed")
	}
	if l.Allow(1) {
		t.Error("first chat should be limited")
	}
	if !l.Allow(2) {
		t.Error("second chat must not share the first chat's window")
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l := New(Config{})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		if !l.Allow(7) {
			t.Fatalf("request %d should fit the default limit", i+1)
		}
	}
	if l.Allow(7) {
		t.Error("11th request should be rejected with default limit 10")
	}
}

func TestLimiter_ResetTime(t *testing.T) {
	l := New(Config{RequestsPerMinute: 1})
	defer l.Stop()

	before := time.Now()
	l.Allow(5)

	reset := l.ResetTime(5)
	if reset.Before(before.Add(50 * time.Second)) {
		t.Errorf("ResetTime() = %v, want about a minute after the request", reset)
	}
}

func TestLimiter_ResetTimeEmpty(t *testing.T) {
	l := New(Config{RequestsPerMinute: 1})
	defer l.Stop()

	reset := l.ResetTime(99)
	if reset.After(time.Now().Add(time.Second)) {
		t.Errorf("ResetTime() for unseen chat = %v, want now", reset)
	}
}
