package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/config"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
	"github.com/velizario/gemini-children-events-be/pkg/mailer"
)

// sender is the part of mailer.Mailgun the worker needs.
type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender).WithAPIBase(cfg.MailgunAPIBase)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handle(context.Background(), mg, logger, msg)
		}
		close(done)
	}()

	helpers.LogInfo(logger, "email worker listening", logrus.Fields{"queue": cfg.RabbitMQEmailQueue})
	<-stop
	logger.Info("shutting down...")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

var errIncompleteJob = errors.New("incomplete email job")

// outcome of one delivery attempt
type outcome int

const (
	ack outcome = iota
	drop
	retry
)

// process decodes a queued job and sends it. Malformed jobs are dropped;
// send failures are retried once, then dropped.
func process(ctx context.Context, mg sender, body []byte, redelivered bool) (outcome, error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return drop, err
	}
	if !job.Valid() {
		return drop, errIncompleteJob
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := mg.Send(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		if redelivered {
			return drop, err
		}
		return retry, err
	}
	return ack, nil
}

func handle(ctx context.Context, mg sender, logger *logrus.Logger, msg amqp.Delivery) {
	res, err := process(ctx, mg, msg.Body, msg.Redelivered)
	fields := logrus.Fields{"delivery_tag": msg.DeliveryTag, "redelivered": msg.Redelivered}
	switch res {
	case ack:
		_ = msg.Ack(false)
	case retry:
		helpers.LogError(logger, "send failed; requeueing", err, fields)
		_ = msg.Nack(false, true)
	default:
		helpers.LogError(logger, "dropping email job", err, fields)
		_ = msg.Nack(false, false)
	}
}
