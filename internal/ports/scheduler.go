package ports

import (
	"context"
	"time"
)

// Scheduler — таймер между сетевыми шагами
type Scheduler interface {
	// After возвращается через d или раньше с ctx.Err(), если контекст отменён
	After(ctx context.Context, d time.Duration) error
}
