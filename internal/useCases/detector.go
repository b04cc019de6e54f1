package useCases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
	"github.com/larriantoniy/wx_isfriend/internal/ports"
)

const DefaultProbeInterval = 15 * time.Second

type DetectorOptions struct {
	BatchSize int
	// Interval — пауза после добавления и после удаления участников
	Interval time.Duration
}

// Progress — состояние после очередного батча
type Progress struct {
	Batch   int
	Batches int
	Checked int
	Total   int
	Flagged int
}

// Detector ищет удаливших пользователя: добавляет контакты батчами в одну комнату
// и смотрит MemberStatus каждого участника. Батчи идут строго последовательно.
type Detector struct {
	rooms      ports.RoomAPI
	sched      ports.Scheduler
	store      ports.ReportStore
	log        *slog.Logger
	opts       DetectorOptions
	onProgress func(Progress)
}

func NewDetector(
	rooms ports.RoomAPI,
	sched ports.Scheduler,
	store ports.ReportStore,
	log *slog.Logger,
	opts DetectorOptions,
) *Detector {
	if opts.BatchSize <= 0 {
		opts.BatchSize = domain.DefaultBatchSize
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultProbeInterval
	}
	return &Detector{
		rooms: rooms,
		sched: sched,
		store: store,
		log:   log,
		opts:  opts,
	}
}

// OnProgress задаёт колбэк, вызываемый после уборки каждого батча
func (d *Detector) OnProgress(fn func(Progress)) {
	d.onProgress = fn
}

// Detect проверяет уже отфильтрованные контакты. Любая ошибка на любом шаге прерывает проверку целиком,
// отчёт при этом не собирается; уже подтверждённые батчи остаются в ReportStore.
func (d *Detector) Detect(ctx context.Context, s *domain.Session, runID string, contacts []domain.Contact) (*domain.DetectionReport, error) {
	log := d.log.With("run_id", runID)
	batches := domain.Partition(contacts, d.opts.BatchSize)
	report := &domain.DetectionReport{
		RunID:     runID,
		Total:     len(contacts),
		Batches:   len(batches),
		StartedAt: time.Now(),
	}
	log.Info("detection started", "contacts", len(contacts), "batches", len(batches), "batch_size", d.opts.BatchSize)

	var (
		room    string
		deleted []domain.Contact
		checked int
	)

	for _, batch := range batches {
		blog := log.With("batch", batch.Index+1)
		names := batch.UserNames()

		var (
			res domain.RoomResult
			err error
		)
		if room == "" {
			res, err = d.rooms.CreateRoom(ctx, s, names)
			if err == nil {
				room = res.RoomName
				blog.Info("probe room created", "room", room)
			}
		} else {
			res, err = d.rooms.AddMembers(ctx, s, room, names)
		}
		if err != nil {
			return nil, d.failed(runID, batch, "probe", err)
		}

		flagged := resolve(batch, res.Removed())
		deleted = append(deleted, flagged...)
		blog.Info("batch probed", "members", len(names), "flagged", len(flagged), "flagged_total", len(deleted))

		if err := d.sched.After(ctx, d.opts.Interval); err != nil {
			return nil, d.failed(runID, batch, "wait", err)
		}

		if err := d.rooms.RemoveMembers(ctx, s, room, names); err != nil {
			return nil, d.failed(runID, batch, "cleanup", err)
		}

		if err := d.checkpoint(ctx, runID, batch, flagged); err != nil {
			return nil, d.failed(runID, batch, "checkpoint", err)
		}

		if err := d.sched.After(ctx, d.opts.Interval); err != nil {
			return nil, d.failed(runID, batch, "wait", err)
		}

		checked += len(names)
		if d.onProgress != nil {
			d.onProgress(Progress{
				Batch:   batch.Index + 1,
				Batches: len(batches),
				Checked: checked,
				Total:   len(contacts),
				Flagged: len(deleted),
			})
		}
	}

	report.Deleted = deleted
	report.FinishedAt = time.Now()
	log.Info("detection finished", "deleted", len(report.Deleted), "total", report.Total)
	return report, nil
}

func (d *Detector) checkpoint(ctx context.Context, runID string, batch domain.ProbeBatch, flagged []domain.Contact) error {
	if d.store == nil {
		return nil
	}
	return d.store.SaveBatch(ctx, runID, batch.Index, flagged)
}

// Checkpointed возвращает удаливших, сохранённых для runID; без хранилища — ничего
func (d *Detector) Checkpointed(ctx context.Context, runID string) ([]domain.Contact, error) {
	if d.store == nil {
		return nil, nil
	}
	return d.store.Load(ctx, runID)
}

func (d *Detector) failed(runID string, batch domain.ProbeBatch, step string, err error) error {
	if errors.Is(err, domain.ErrRateLimited) {
		d.log.Warn("service rate limit hit, increase probe.interval", "interval", d.opts.Interval)
	}
	d.log.Error("detection aborted",
		"run_id", runID,
		"batch", batch.Index+1,
		"step", step,
		"error", err,
	)
	return fmt.Errorf("run %s batch %d %s: %w", runID, batch.Index+1, step, err)
}

// resolve находит контакты батча по именам; чужое имя остаётся контактом только с UserName
func resolve(batch domain.ProbeBatch, names []string) []domain.Contact {
	out := make([]domain.Contact, 0, len(names))
	for _, name := range names {
		c, ok := batch.Lookup(name)
		if !ok {
			c = domain.Contact{UserName: name}
		}
		out = append(out, c)
	}
	return out
}
