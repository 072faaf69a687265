package container

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velizario/gemini-children-events-be/config"
	"github.com/velizario/gemini-children-events-be/pkg/mailer"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func memoryConfig() *config.Config {
	return &config.Config{
		StorageDriver:    "memory",
		JWTAccessSecret:  "a",
		JWTRefreshSecret: "r",
		CompanyName:      "KidzEvents",
		MailSendEnabled:  true,
		MailTransport:    "queue",
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	c, err := New(memoryConfig(), testLogger(), Infra{})
	require.NoError(t, err)

	assert.NotNil(t, c.Users)
	assert.NotNil(t, c.Events)
	assert.NotNil(t, c.Registrations)
	assert.NotNil(t, c.Reviews)
	assert.NotNil(t, c.Organizers)
	assert.Nil(t, c.Registrations.Notifier)
	assert.Nil(t, c.Events.Index)
	assert.Nil(t, c.Events.Images)
	assert.Nil(t, c.Organizers.Cache)
}

func TestNewRepositories_DriverSelection(t *testing.T) {
	_, err := NewRepositories(&config.Config{StorageDriver: "postgres"}, nil)
	assert.Error(t, err)

	_, err = NewRepositories(&config.Config{StorageDriver: "sqlite"}, nil)
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestNewNotifier(t *testing.T) {
	cfg := memoryConfig()

	mg := mailer.NewMailgun("mg.example.com", "key", "noreply@example.com")
	cfg.MailTransport = "direct"
	assert.IsType(t, &mailer.DirectSender{}, newNotifier(cfg, Infra{Mailgun: mg}, testLogger()))

	cfg.MailTransport = "queue"
	assert.Nil(t, newNotifier(cfg, Infra{Mailgun: mg}, testLogger()))

	cfg.MailSendEnabled = false
	cfg.MailTransport = "direct"
	assert.Nil(t, newNotifier(cfg, Infra{Mailgun: mg}, testLogger()))
}
