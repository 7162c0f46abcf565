package chat

import (
	"testing"
	"time"
)

func TestNextCronDuration_ValidExpression(t *testing.T) {
	// "0 7 * * *" = daily at 07:00. Duration should be positive and < 24h.
	d := nextCronDuration("0 7 * * *")
	if d <= 0 {
		t.Fatalf("expected positive duration, got %v", d)
	}
	if d > 24*time.Hour {
		t.Fatalf("expected duration < 24h, got %v", d)
	}
}

func TestNextCronDuration_InvalidExpression(t *testing.T) {
	d := nextCronDuration("not a cron expr")
	if d != 0 {
		t.Fatalf("expected 0 for invalid expression, got %v", d)
	}
}

func TestNextCronDuration_EveryMinute(t *testing.T) {
	// "* * * * *" = every minute. Duration should be < 61s.
	d := nextCronDuration("* * * * *")
	if d <= 0 {
		t.Fatalf("expected positive duration, got %v", d)
	}
	if d > 61*time.Second {
		t.Fatalf("expected duration < 61s, got %v", d)
	}
}

func TestTimerChan_Nil(t *testing.T) {
	if timerChan(nil) != nil {
		t.Fatal("expected nil channel for nil timer")
	}
}

func TestTimerChan_Real(t *testing.T) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	if timerChan(timer) == nil {
		t.Fatal("expected non-nil channel for real timer")
	}
}
