package domain

import "time"

// DetectionReport — итог проверки
type DetectionReport struct {
	RunID      string
	Total      int
	Batches    int
	Deleted    []Contact
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *DetectionReport) DeletedNames() []string {
	names := make([]string, len(r.Deleted))
	for i, c := range r.Deleted {
		names[i] = c.DisplayName()
	}
	return names
}
