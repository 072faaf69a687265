package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun delivers plain-text mail from a fixed sender.
type Mailgun struct {
	client mg.Mailgun
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Sender: sender}
}

// WithAPIBase points the client at another API region or a test server.
func (m *Mailgun) WithAPIBase(url string) *Mailgun {
	if url != "" {
		m.client.SetAPIBase(url)
	}
	return m
}

// Send sends an email via Mailgun. html is optional and sent alongside text.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if m.Sender == "" {
		return errors.New("mailer: sender not configured")
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
