package useCases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
	"github.com/larriantoniy/wx_isfriend/internal/ports"
)

// Runner проводит один прогон: вход → профиль и контакты → проверка → уведомления
type Runner struct {
	login     *Login
	directory ports.DirectoryAPI
	detector  *Detector
	notifiers []ports.Notifier
	log       *slog.Logger

	newRunID func() string
}

func NewRunner(
	login *Login,
	directory ports.DirectoryAPI,
	detector *Detector,
	log *slog.Logger,
	notifiers ...ports.Notifier,
) *Runner {
	return &Runner{
		login:     login,
		directory: directory,
		detector:  detector,
		notifiers: notifiers,
		log:       log,
		newRunID:  func() string { return uuid.NewString() },
	}
}

// Run возвращает отчёт или первую фатальную ошибку
func (r *Runner) Run(ctx context.Context) (*domain.DetectionReport, error) {
	runID := r.newRunID()
	log := r.log.With("run_id", runID)

	session, err := r.login.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	profile, contacts, err := r.fetchDirectory(ctx, session)
	if err != nil {
		return nil, err
	}

	probeable := domain.FilterProbeable(contacts, profile.UserName)
	log.Info("contacts loaded",
		"self", profile.UserName,
		"total", len(contacts),
		"probeable", len(probeable),
	)

	report, err := r.detector.Detect(ctx, session, runID, probeable)
	if err != nil {
		return nil, r.aborted(ctx, log, runID, err)
	}

	for _, n := range r.notifiers {
		if err := n.Notify(ctx, report); err != nil {
			log.Warn("notify failed", "notifier", fmt.Sprintf("%T", n), "error", err)
		}
	}
	return report, nil
}

// aborted поднимает чекпоинты прерванного прогона. Отчёт не собирается, подтверждённые контакты уходят в ошибке.
func (r *Runner) aborted(ctx context.Context, log *slog.Logger, runID string, err error) error {
	confirmed, loadErr := r.detector.Checkpointed(context.WithoutCancel(ctx), runID)
	if loadErr != nil {
		log.Warn("checkpoints not loaded", "error", loadErr)
	} else if len(confirmed) > 0 {
		log.Info("confirmed before abort", "deleted", len(confirmed))
	}
	return &domain.RunAbortedError{
		RunID:     runID,
		Confirmed: confirmed,
		Err:       fmt.Errorf("detect: %w", err),
	}
}

// fetchDirectory загружает профиль и контакты параллельно, дальше идём только когда готовы оба
func (r *Runner) fetchDirectory(ctx context.Context, s *domain.Session) (domain.Profile, []domain.Contact, error) {
	var (
		profile  domain.Profile
		contacts []domain.Contact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := r.directory.Profile(gctx, s)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		c, err := r.directory.Contacts(gctx, s)
		if err != nil {
			return fmt.Errorf("contacts: %w", err)
		}
		contacts = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Profile{}, nil, err
	}
	return profile, contacts, nil
}
