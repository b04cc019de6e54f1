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

const DefaultPollInterval = 500 * time.Millisecond

type LoginOptions struct {
	PollInterval time.Duration
	// MaxAttempts ограничивает число опросов; 0 — без ограничения
	MaxAttempts int
	// Timeout ограничивает ожидание сканирования; 0 — без ограничения
	Timeout time.Duration
}

// Login — конечный автомат входа по QR-коду
type Login struct {
	api      ports.LoginAPI
	display  ports.QRDisplay
	observer ports.LoginObserver
	sched    ports.Scheduler
	log      *slog.Logger
	opts     LoginOptions

	state domain.LoginState
	tip   int
	uuid  string
}

func NewLogin(
	api ports.LoginAPI,
	display ports.QRDisplay,
	observer ports.LoginObserver,
	sched ports.Scheduler,
	log *slog.Logger,
	opts LoginOptions,
) *Login {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Login{
		api:      api,
		display:  display,
		observer: observer,
		sched:    sched,
		log:      log,
		opts:     opts,
		state:    domain.StateUUIDPending,
	}
}

func (l *Login) State() domain.LoginState {
	return l.state
}

func (l *Login) Tip() int {
	return l.tip
}

func (l *Login) transition(next domain.LoginState) {
	if l.state != next {
		l.log.Debug("login state", "from", l.state, "to", next)
	}
	l.state = next
}

func (l *Login) abort(err error) (*domain.Session, error) {
	l.transition(domain.StateAborted)
	return nil, err
}

// Run проходит вход до CONFIRMED или ABORTED и возвращает сессию
func (l *Login) Run(ctx context.Context) (*domain.Session, error) {
	uuid, err := l.api.FetchUUID(ctx)
	if err != nil {
		return l.abort(fmt.Errorf("fetch uuid: %w", err))
	}
	if uuid == "" {
		return l.abort(domain.ErrEmptyUUID)
	}
	l.uuid = uuid
	l.log.Info("login uuid issued", "uuid", uuid)

	image, err := l.api.FetchQR(ctx, uuid)
	if err != nil {
		return l.abort(fmt.Errorf("fetch qr: %w", err))
	}
	l.tip = domain.TipFirstWait
	l.transition(domain.StateQRReady)

	if err := l.display.Show(ctx, image); err != nil {
		l.log.Warn("QR display failed", "error", err)
	}
	l.observer.QRReady(uuid)

	redirect, err := l.poll(ctx)
	if err != nil {
		return l.abort(err)
	}

	// 200 получен: ошибка base-info фатальна, повторов нет; CONFIRMED только с готовой сессией
	session, err := l.api.FetchSession(ctx, redirect)
	if err != nil {
		return l.abort(fmt.Errorf("fetch session: %w", err))
	}
	l.transition(domain.StateConfirmed)
	l.observer.Confirmed()

	if err := l.display.Close(); err != nil {
		l.log.Warn("QR cleanup failed", "error", err)
	}
	l.log.Info("login confirmed", "uin", session.Uin, "base_url", session.BaseURL)
	return session, nil
}

// poll опрашивает статус, пока сервис не вернёт 200. Ошибки опроса мягкие: повтор через PollInterval.
func (l *Login) poll(ctx context.Context) (string, error) {
	l.transition(domain.StateAwaitingScan)

	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	for attempt := 1; ; attempt++ {
		res, err := l.api.PollLogin(ctx, l.uuid, l.tip)
		switch {
		case res.Code == domain.LoginCodeConfirmed:
			// uuid уже израсходован: 200 без redirect_uri повторять бессмысленно
			if err != nil {
				return "", fmt.Errorf("login confirmed: %w", err)
			}
			return res.RedirectURI, nil
		case err == nil && res.Code == domain.LoginCodeScanned:
			l.tip = domain.TipAlreadyScanned
			l.transition(domain.StateScannedUnconfirmed)
			l.observer.Scanned()
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", l.pollStopped(ctxErr)
			}
			l.log.Debug("login poll failed", "attempt", attempt, "code", res.Code, "error", err)
			l.observer.Retrying(res.Code, err)
		}

		if l.opts.MaxAttempts > 0 && attempt >= l.opts.MaxAttempts {
			return "", fmt.Errorf("after %d polls: %w", attempt, domain.ErrProtocolTimeout)
		}
		if err := l.sched.After(ctx, l.opts.PollInterval); err != nil {
			return "", l.pollStopped(err)
		}
	}
}

func (l *Login) pollStopped(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && l.opts.Timeout > 0 {
		return fmt.Errorf("after %s: %w", l.opts.Timeout, domain.ErrProtocolTimeout)
	}
	return err
}
