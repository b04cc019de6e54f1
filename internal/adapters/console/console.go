package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
	"github.com/larriantoniy/wx_isfriend/internal/useCases"
)

const progressWidth = 40

// Printer выводит пользователю статус входа, прогресс и итоговый отчёт.
// Реализует ports.LoginObserver и ports.Notifier.
type Printer struct {
	w      io.Writer
	qrPath string

	info  *color.Color
	ok    *color.Color
	warn  *color.Color
	title *color.Color
}

func NewPrinter(w io.Writer, qrPath string) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		w:      w,
		qrPath: qrPath,
		info:   color.New(color.FgCyan),
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgRed),
		title:  color.New(color.FgHiWhite, color.Bold),
	}
}

func (p *Printer) QRReady(uuid string) {
	if p.qrPath != "" {
		p.info.Fprintf(p.w, "QR code saved to %s, scan it with your phone\n", p.qrPath)
		return
	}
	p.info.Fprintf(p.w, "QR code ready (uuid %s), scan it with your phone\n", uuid)
}

func (p *Printer) Scanned() {
	p.ok.Fprintln(p.w, "Scanned, please confirm the login on your phone")
}

func (p *Printer) Retrying(code int, err error) {
	if err != nil {
		p.warn.Fprintf(p.w, "Login check failed (%v), retrying...\n", err)
		return
	}
	p.warn.Fprintf(p.w, "Login not confirmed yet (code %d), retrying...\n", code)
}

func (p *Printer) Confirmed() {
	p.ok.Fprintln(p.w, "Login confirmed, loading contacts...")
}

func (p *Printer) Progress(pr useCases.Progress) {
	done := 0
	if pr.Total > 0 {
		done = pr.Checked * progressWidth / pr.Total
	}
	p.info.Fprintf(p.w, "Batch %d/%d: checked %d of %d contacts, %d removed you so far\n",
		pr.Batch, pr.Batches, pr.Checked, pr.Total, pr.Flagged)
	fmt.Fprintf(p.w, "[%s%s]\n", strings.Repeat("#", done), strings.Repeat("-", progressWidth-done))
}

func (p *Printer) Notify(_ context.Context, report *domain.DetectionReport) error {
	if len(report.Deleted) == 0 {
		p.ok.Fprintf(p.w, "Checked %d contacts, nobody removed you\n", report.Total)
		return nil
	}

	p.info.Fprintf(p.w, "Checked %d contacts, %d removed you\n", report.Total, len(report.Deleted))
	p.title.Fprintln(p.w, "========== contacts who removed you ==========")
	for _, name := range report.DeletedNames() {
		fmt.Fprintln(p.w, name)
	}
	return nil
}

// Fatal печатает фатальную ошибку прогона
func (p *Printer) Fatal(err error) {
	p.warn.Fprintf(p.w, "Check failed: %v\n", err)

	var aborted *domain.RunAbortedError
	if !errors.As(err, &aborted) || len(aborted.Confirmed) == 0 {
		return
	}
	p.title.Fprintf(p.w, "===== removed you (confirmed before the failure, run %s) =====\n", aborted.RunID)
	for _, c := range aborted.Confirmed {
		fmt.Fprintln(p.w, c.DisplayName())
	}
}
