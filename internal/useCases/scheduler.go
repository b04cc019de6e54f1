package useCases

import (
	"context"
	"time"
)

// TimerScheduler — ports.Scheduler на обычных таймерах
type TimerScheduler struct{}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (TimerScheduler) After(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
