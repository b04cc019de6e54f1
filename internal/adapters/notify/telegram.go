package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

// telegramLimit — максимальная длина текста одного сообщения
const telegramLimit = 4096

// TelegramNotifier отправляет отчёт в чат через Bot API
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *slog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	logger.Info("telegram notifier ready", "bot", bot.Self.UserName, "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *TelegramNotifier) Notify(ctx context.Context, report *domain.DetectionReport) error {
	for _, text := range splitMessage(FormatReport(report), telegramLimit) {
		msg := tgbotapi.NewMessage(t.chatID, text)
		err := retry(ctx, 3, time.Second, func() error {
			_, err := t.bot.Send(msg)
			if err != nil {
				t.logger.Warn("telegram send failed", "chat_id", t.chatID, "error", err)
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

// FormatReport — текстовое представление отчёта
func FormatReport(report *domain.DetectionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", report.RunID)
	fmt.Fprintf(&b, "Checked %d contacts in %d batches\n", report.Total, report.Batches)
	if len(report.Deleted) == 0 {
		b.WriteString("Nobody removed you")
		return b.String()
	}
	fmt.Fprintf(&b, "%d contacts removed you:\n", len(report.Deleted))
	for _, name := range report.DeletedNames() {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// splitMessage режет текст по строкам на куски не длиннее limit байт
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			cut := runeCut(line, limit)
			out = append(out, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			out = append(out, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// runeCut сдвигает позицию разреза к началу руны, чтобы не ломать UTF-8
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}

func retry(ctx context.Context, attempts int, sleep time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
