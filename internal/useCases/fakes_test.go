package useCases

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingScheduler не ждёт, а только запоминает интервалы
type recordingScheduler struct {
	mu     sync.Mutex
	waits  []time.Duration
	failAt int
	err    error
}

func (s *recordingScheduler) After(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	if s.failAt > 0 && len(s.waits) == s.failAt {
		return s.err
	}
	return ctx.Err()
}

type pollStep struct {
	code int
	err  error
}

// scriptedLogin отдаёт коды опроса по сценарию и запоминает tip каждого запроса
type scriptedLogin struct {
	uuid      string
	uuidErr   error
	qrErr     error
	steps     []pollStep
	tips      []int
	session   *domain.Session
	sessErr   error
	redirects []string
}

func (f *scriptedLogin) FetchUUID(context.Context) (string, error) {
	return f.uuid, f.uuidErr
}

func (f *scriptedLogin) FetchQR(context.Context, string) ([]byte, error) {
	if f.qrErr != nil {
		return nil, f.qrErr
	}
	return []byte("qr"), nil
}

func (f *scriptedLogin) PollLogin(_ context.Context, _ string, tip int) (domain.PollResult, error) {
	f.tips = append(f.tips, tip)
	step := pollStep{code: 408}
	if len(f.steps) > 0 {
		step, f.steps = f.steps[0], f.steps[1:]
	}
	if step.err != nil {
		code := step.code
		if code == 0 {
			code = domain.LoginCodeUnknown
		}
		return domain.PollResult{Code: code}, step.err
	}
	res := domain.PollResult{Code: step.code}
	if step.code == domain.LoginCodeConfirmed {
		res.RedirectURI = "https://wx.example/cgi-bin/mmwebwx-bin/webwxnewloginpage?ticket=t&fun=new"
	}
	return res, nil
}

func (f *scriptedLogin) FetchSession(_ context.Context, redirect string) (*domain.Session, error) {
	f.redirects = append(f.redirects, redirect)
	if f.sessErr != nil {
		return nil, f.sessErr
	}
	if f.session != nil {
		return f.session, nil
	}
	return &domain.Session{Uin: 1, Sid: "sid", BaseURL: "https://wx.example/cgi-bin/mmwebwx-bin"}, nil
}

type fakeDisplay struct {
	shown   int
	closed  int
	showErr error
}

func (d *fakeDisplay) Show(context.Context, []byte) error {
	d.shown++
	return d.showErr
}

func (d *fakeDisplay) Close() error {
	d.closed++
	return nil
}

type fakeObserver struct {
	events []string
}

func (o *fakeObserver) QRReady(string) { o.events = append(o.events, "qr") }
func (o *fakeObserver) Scanned() { o.events = append(o.events, "scanned") }
func (o *fakeObserver) Retrying(int, error) { o.events = append(o.events, "retry") }
func (o *fakeObserver) Confirmed() { o.events = append(o.events, "confirmed") }

// fakeRooms эмулирует комнату: участники из removed получают MemberStatus 4
type fakeRooms struct {
	mu      sync.Mutex
	room    string
	removed map[string]bool
	calls   []string
	members map[string]bool
	// failOn — номер вызова CreateRoom/AddMembers (с 1), на котором вернуть ошибку
	failOn int
	err    error
	probes int
}

func newFakeRooms(removed ...string) *fakeRooms {
	r := &fakeRooms{room: "@@probe", removed: map[string]bool{}, members: map[string]bool{}}
	for _, n := range removed {
		r.removed[n] = true
	}
	return r
}

func (r *fakeRooms) probe(op string, names []string) (domain.RoomResult, error) {
	r.probes++
	r.calls = append(r.calls, op)
	if r.failOn > 0 && r.probes == r.failOn {
		return domain.RoomResult{}, r.err
	}
	res := domain.RoomResult{RoomName: r.room}
	for _, n := range names {
		r.members[n] = true
		status := 0
		if r.removed[n] {
			status = domain.MemberStatusRemoved
		}
		res.Members = append(res.Members, domain.RoomMember{UserName: n, MemberStatus: status})
	}
	return res, nil
}

func (r *fakeRooms) CreateRoom(_ context.Context, _ *domain.Session, names []string) (domain.RoomResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.probe("create", names)
}

func (r *fakeRooms) AddMembers(_ context.Context, _ *domain.Session, room string, names []string) (domain.RoomResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room != r.room {
		return domain.RoomResult{}, errors.New("unknown room " + room)
	}
	return r.probe("add", names)
}

func (r *fakeRooms) RemoveMembers(_ context.Context, _ *domain.Session, room string, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room != r.room {
		return errors.New("unknown room " + room)
	}
	r.calls = append(r.calls, "remove")
	for _, n := range names {
		delete(r.members, n)
	}
	return nil
}

type fakeDirectory struct {
	profile     domain.Profile
	contacts    []domain.Contact
	profileErr  error
	contactsErr error
}

func (d *fakeDirectory) Profile(context.Context, *domain.Session) (domain.Profile, error) {
	return d.profile, d.profileErr
}

func (d *fakeDirectory) Contacts(context.Context, *domain.Session) ([]domain.Contact, error) {
	return d.contacts, d.contactsErr
}

type fakeNotifier struct {
	reports []*domain.DetectionReport
	err     error
}

func (n *fakeNotifier) Notify(_ context.Context, r *domain.DetectionReport) error {
	n.reports = append(n.reports, r)
	return n.err
}
