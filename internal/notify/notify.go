package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tg "gopkg.in/telegram-bot-api.v4"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
)

// Sender delivers a short text to the admins.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// LogSender writes notifications to the log when no chat is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, text string) error {
	slog.Info("admin notification", "text", text)
	return nil
}

type TelegramSender struct {
	bot    *tg.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := tg.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	bot.Debug = false
	slog.Info("telegram notifier ready", "bot", bot.Self.UserName)
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

func (s *TelegramSender) Send(_ context.Context, text string) error {
	msg := tg.NewMessage(s.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// ReportSummary renders the admin alert for a new report. Contact and
// emergency details are left out; admins look them up behind the login.
func ReportSummary(r *models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New fraud report %s\n", r.ID)
	fmt.Fprintf(&b, "Type: %s\n", r.FraudType)
	fmt.Fprintf(&b, "Time: %s\n", r.FraudTime)
	if r.FraudAmount != "" {
		fmt.Fprintf(&b, "Amount: %s\n", r.FraudAmount)
	}
	fmt.Fprintf(&b, "Evidence files: %d\n", len(r.Files))
	desc := []rune(r.Description)
	if len(desc) > 200 {
		desc = append(desc[:200], '…')
	}
	fmt.Fprintf(&b, "\n%s", string(desc))
	return b.String()
}
