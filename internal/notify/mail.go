package notify

import (
	"context"

	"github.com/wneessen/go-mail"
)

type EmailSender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(client *mail.Client, from string) *SMTPSender {
	return &SMTPSender{client: client, from: from}
}

func (s *SMTPSender) Send(ctx context.Context, to string, subject string, body string) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return err
	}
	if err := m.To(to); err != nil {
		return err
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)

	return s.client.DialAndSendWithContext(ctx, m)
}
