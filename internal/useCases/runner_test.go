package useCases

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/larriantoniy/wx_isfriend/internal/adapters/store"
	"github.com/larriantoniy/wx_isfriend/internal/domain"
	"github.com/larriantoniy/wx_isfriend/internal/ports"
)

func newTestRunner(dir *fakeDirectory, rooms *fakeRooms, notifiers ...*fakeNotifier) *Runner {
	sched := &recordingScheduler{}
	login := NewLogin(&scriptedLogin{uuid: "u", steps: []pollStep{{code: 200}}},
		&fakeDisplay{}, &fakeObserver{}, sched, discardLogger(), LoginOptions{})
	detector := NewDetector(rooms, sched, nil, discardLogger(), DetectorOptions{})

	ns := make([]ports.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		ns = append(ns, n)
	}
	r := NewRunner(login, dir, detector, discardLogger(), ns...)
	r.newRunID = func() string { return "run-fixed" }
	return r
}

func TestRunnerEndToEnd(t *testing.T) {
	dir := &fakeDirectory{
		profile: domain.Profile{UserName: "@self", NickName: "Me"},
		contacts: []domain.Contact{
			{UserName: "@self"},
			{UserName: "@alice", NickName: "Alice"},
			{UserName: "filehelper"},
			{UserName: "@@group", NickName: "Group"},
			{UserName: "@news", NickName: "News", VerifyFlag: 8},
			{UserName: "@bob", NickName: "Bob", RemarkName: "Bobby"},
		},
	}
	rooms := newFakeRooms("@bob")
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	second := &fakeNotifier{}

	report, err := newTestRunner(dir, rooms, notifier, second).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.RunID != "run-fixed" || report.Total != 2 {
		t.Errorf("report = %+v", report)
	}
	if want := []string{"Bob (Bobby)"}; !reflect.DeepEqual(report.DeletedNames(), want) {
		t.Errorf("deleted = %v", report.DeletedNames())
	}
	// ошибка одного уведомителя не мешает остальным
	if len(notifier.reports) != 1 || len(second.reports) != 1 {
		t.Errorf("notifiers called %d and %d times", len(notifier.reports), len(second.reports))
	}
}

func TestRunnerDirectoryFailure(t *testing.T) {
	dir := &fakeDirectory{
		profile:     domain.Profile{UserName: "@self"},
		contactsErr: &domain.BusinessError{Op: "webwxgetcontact", Ret: 1101},
	}
	rooms := newFakeRooms()
	notifier := &fakeNotifier{}

	report, err := newTestRunner(dir, rooms, notifier).Run(context.Background())
	if report != nil || err == nil || !strings.Contains(err.Error(), "contacts") {
		t.Fatalf("Run() = %+v, %v", report, err)
	}
	if len(rooms.calls) != 0 || len(notifier.reports) != 0 {
		t.Errorf("detection ran after a failed directory fetch")
	}
}

func TestRunnerLoginFailure(t *testing.T) {
	sched := &recordingScheduler{}
	login := NewLogin(&scriptedLogin{}, &fakeDisplay{}, &fakeObserver{}, sched, discardLogger(), LoginOptions{})
	rooms := newFakeRooms()
	r := NewRunner(login, &fakeDirectory{}, NewDetector(rooms, sched, nil, discardLogger(), DetectorOptions{}), discardLogger())

	if _, err := r.Run(context.Background()); !errors.Is(err, domain.ErrEmptyUUID) {
		t.Fatalf("expected ErrEmptyUUID, got %v", err)
	}
}

func TestRunnerAbortCarriesCheckpoints(t *testing.T) {
	contacts := makeContacts(65)
	dir := &fakeDirectory{profile: domain.Profile{UserName: "@self"}, contacts: contacts}
	rooms := newFakeRooms("@u03", "@u40")
	rooms.failOn = 2
	rooms.err = &domain.BusinessError{Op: "addmember", Ret: 1}

	sched := &recordingScheduler{}
	login := NewLogin(&scriptedLogin{uuid: "u", steps: []pollStep{{code: 200}}},
		&fakeDisplay{}, &fakeObserver{}, sched, discardLogger(), LoginOptions{})
	detector := NewDetector(rooms, sched, store.NewMemoryStore(), discardLogger(), DetectorOptions{})
	notifier := &fakeNotifier{}
	r := NewRunner(login, dir, detector, discardLogger(), notifier)
	r.newRunID = func() string { return "run-aborted" }

	report, err := r.Run(context.Background())
	if report != nil {
		t.Fatalf("expected no report, got %+v", report)
	}

	var aborted *domain.RunAbortedError
	if !errors.As(err, &aborted) {
		t.Fatalf("expected RunAbortedError, got %v", err)
	}
	if aborted.RunID != "run-aborted" || len(aborted.Confirmed) != 1 || aborted.Confirmed[0].UserName != "@u03" {
		t.Errorf("aborted = %+v", aborted)
	}
	var be *domain.BusinessError
	if !errors.As(err, &be) || be.Op != "addmember" {
		t.Errorf("cause lost: %v", err)
	}
	if len(notifier.reports) != 0 {
		t.Errorf("report emitted for an aborted run")
	}
}

func TestRunnerAbortWithoutStore(t *testing.T) {
	dir := &fakeDirectory{profile: domain.Profile{UserName: "@self"}, contacts: makeContacts(3)}
	rooms := newFakeRooms()
	rooms.failOn = 1
	rooms.err = errors.New("reset")

	_, err := newTestRunner(dir, rooms).Run(context.Background())
	var aborted *domain.RunAbortedError
	if !errors.As(err, &aborted) || len(aborted.Confirmed) != 0 {
		t.Fatalf("Run() error = %v", err)
	}
}
