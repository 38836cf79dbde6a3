// Package notifier отправляет отчёты и сигналы об ошибках операторам в Telegram.
package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxMessageRunes: ограничение Telegram на длину одного сообщения.
const maxMessageRunes = 4096

type bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram рассылает сообщения списку получателей.
type Telegram struct {
	bot        bot
	recipients []string
	logger     *zap.Logger
	timeout    time.Duration
}

// NewTelegram авторизует бота по токену и создаёт рассыльщика.
func NewTelegram(token string, recipients []string, logger *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return newTelegram(api, recipients, logger), nil
}

func newTelegram(b bot, recipients []string, logger *zap.Logger) *Telegram {
	kept := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			kept = append(kept, r)
		}
	}
	return &Telegram{
		bot:        b,
		recipients: kept,
		logger:     logger,
		timeout:    30 * time.Second,
	}
}

// Send отправляет текст всем получателям. Ошибки доставки только логируются.
func (t *Telegram) Send(ctx context.Context, text string) {
	if text == "" {
		return
	}
	chunks := split(text, maxMessageRunes)

	var g errgroup.Group
	g.SetLimit(4)
	for _, recipient := range t.recipients {
		g.Go(func() error {
			for _, chunk := range chunks {
				if ctx.Err() != nil {
					return nil
				}
				if _, err := t.bot.Send(message(recipient, chunk)); err != nil {
					t.logger.Warn("telegram send failed", zap.String("recipient", recipient), zap.Error(err))
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Notify реализует приёмник журнала: пересылает запись операторам.
func (t *Telegram) Notify(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	t.Send(ctx, text)
}

func message(recipient, text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(recipient, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(recipient, text)
}

func split(text string, limit int) []string {
	r := []rune(text)
	if len(r) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(r) > 0 {
		n := min(limit, len(r))
		chunks = append(chunks, string(r[:n]))
		r = r[n:]
	}
	return chunks
}
