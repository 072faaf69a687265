package mailer

import (
	"context"
	"errors"
)

// Publisher is the subset of helpers.RabbitPublisher used for queueing.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands mail to the email worker through RabbitMQ.
type QueueSender struct {
	pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{pub: pub}
}

func (s *QueueSender) Send(ctx context.Context, to, subject, body string) error {
	job := EmailJob{To: to, Subject: subject, Text: body}
	if !job.Valid() {
		return errors.New("mailer: incomplete email job")
	}
	return s.pub.PublishJSON(ctx, job)
}

// DirectSender delivers through Mailgun inside the calling request.
type DirectSender struct {
	mg *Mailgun
}

func NewDirectSender(mg *Mailgun) *DirectSender {
	return &DirectSender{mg: mg}
}

func (s *DirectSender) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("mailer: empty recipient")
	}
	return s.mg.Send(ctx, to, subject, body, "")
}
