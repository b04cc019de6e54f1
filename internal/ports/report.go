package ports

import (
	"context"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

// ReportStore сохраняет подтверждённых удаливших после каждого батча
type ReportStore interface {
	// SaveBatch записывает результат батча; повторная запись того же батча перезаписывает его
	SaveBatch(ctx context.Context, runID string, batch int, deleted []domain.Contact) error
	// Load возвращает все сохранённые контакты прогона в порядке батчей
	Load(ctx context.Context, runID string) ([]domain.Contact, error)
	Close(ctx context.Context) error
}

// Notifier доставляет готовый отчёт
type Notifier interface {
	Notify(ctx context.Context, report *domain.DetectionReport) error
}
