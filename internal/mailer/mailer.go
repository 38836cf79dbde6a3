// Package mailer отправляет письма покупателям через SMTP.
package mailer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

// Settings содержит параметры SMTP-подключения.
type Settings struct {
	Sender      string
	Password    string
	DisplayName string
	Host        string
	Port        int
	Timeout     time.Duration
}

// Sender отправляет письма с вложениями через SMTP с неявным TLS.
type Sender struct {
	settings Settings
	dial     func(ctx context.Context, msg *mail.Msg) error
}

// NewSender создаёт отправителя писем.
func NewSender(s Settings) *Sender {
	if s.Timeout <= 0 {
		s.Timeout = time.Minute
	}
	sender := &Sender{settings: s}
	sender.dial = sender.dialAndSend
	return sender
}

// Send собирает и отправляет одно письмо.
func (s *Sender) Send(ctx context.Context, letter model.Letter) error {
	msg, err := s.build(letter)
	if err != nil {
		return err
	}
	if err := s.dial(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", letter.To, err)
	}
	return nil
}

func (s *Sender) build(letter model.Letter) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.settings.DisplayName, s.settings.Sender); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(letter.To); err != nil {
		return nil, fmt.Errorf("set recipient %q: %w", letter.To, err)
	}
	msg.Subject(letter.Subject)
	msg.SetBodyString(mail.TypeTextHTML, letter.Body)
	for _, path := range letter.Attachments {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("attachment %q: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("attachment %q is a directory", path)
		}
		msg.AttachFile(path)
	}
	return msg, nil
}

func (s *Sender) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(s.settings.Host,
		mail.WithPort(s.settings.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.settings.Sender),
		mail.WithPassword(s.settings.Password),
		mail.WithTimeout(s.settings.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
