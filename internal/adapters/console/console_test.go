package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
	"github.com/larriantoniy/wx_isfriend/internal/useCases"
)

func newTestPrinter(qrPath string) (*Printer, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return NewPrinter(&buf, qrPath), &buf
}

func TestPrinterLoginEvents(t *testing.T) {
	p, buf := newTestPrinter("./qr.jpg")
	p.QRReady("uuid")
	p.Retrying(408, nil)
	p.Retrying(-1, errors.New("timeout"))
	p.Scanned()
	p.Confirmed()

	out := buf.String()
	for _, want := range []string{"./qr.jpg", "code 408", "timeout", "confirm the login", "Login confirmed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestPrinterProgress(t *testing.T) {
	p, buf := newTestPrinter("")
	p.Progress(useCases.Progress{Batch: 1, Batches: 2, Checked: 30, Total: 60, Flagged: 1})

	out := buf.String()
	if !strings.Contains(out, "Batch 1/2") {
		t.Errorf("output = %q", out)
	}
	bar := "[" + strings.Repeat("#", 20) + strings.Repeat("-", 20) + "]"
	if !strings.Contains(out, bar) {
		t.Errorf("bar missing in %q", out)
	}
}

func TestPrinterNotify(t *testing.T) {
	p, buf := newTestPrinter("")
	report := &domain.DetectionReport{
		Total:   10,
		Deleted: []domain.Contact{{UserName: "@a", NickName: "Alice", RemarkName: "Al"}},
	}
	if err := p.Notify(context.Background(), report); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "1 removed you") || !strings.Contains(out, "Alice (Al)") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	_ = p.Notify(context.Background(), &domain.DetectionReport{Total: 3})
	if !strings.Contains(buf.String(), "nobody removed you") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinterFatalListsConfirmed(t *testing.T) {
	p, buf := newTestPrinter("")
	err := fmt.Errorf("detect: %w", &domain.RunAbortedError{
		RunID:     "run-1",
		Confirmed: []domain.Contact{{UserName: "@a", NickName: "Alice"}},
		Err:       errors.New("ret=1"),
	})
	p.Fatal(err)

	out := buf.String()
	if !strings.Contains(out, "Check failed") || !strings.Contains(out, "run-1") || !strings.Contains(out, "Alice") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	p.Fatal(errors.New("login: timeout"))
	if strings.Contains(buf.String(), "confirmed before") {
		t.Errorf("unexpected confirmed section: %q", buf.String())
	}
}
