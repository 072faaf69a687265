package container

import (
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/config"
	"github.com/velizario/gemini-children-events-be/internal/application"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
	"github.com/velizario/gemini-children-events-be/internal/infrastructure/blob"
	"github.com/velizario/gemini-children-events-be/internal/infrastructure/cache"
	"github.com/velizario/gemini-children-events-be/internal/infrastructure/memory"
	pginfra "github.com/velizario/gemini-children-events-be/internal/infrastructure/postgres"
	"github.com/velizario/gemini-children-events-be/internal/infrastructure/search"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
	"github.com/velizario/gemini-children-events-be/pkg/mailer"
)

// Infra carries the connected clients. Any field may be nil; the matching
// feature is then disabled.
type Infra struct {
	PGPool  *pgxpool.Pool
	Redis   *redis.Client
	GCS     *storage.Client
	ES      *elasticsearch.Client
	Rabbit  *helpers.RabbitPublisher
	Mailgun *mailer.Mailgun
}

type Repositories struct {
	Users         repository.UserRepository
	Profiles      repository.OrganizerProfileRepository
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Reviews       repository.ReviewRepository
}

// Container holds the application graph shared by the router and commands.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client
	JWT    *helpers.JWTManager

	Repos Repositories

	Users         *application.UserService
	Events        *application.EventService
	Registrations *application.RegistrationService
	Reviews       *application.ReviewService
	Organizers    *application.OrganizerService
}

// New builds repositories for cfg.StorageDriver and wires the services.
func New(cfg *config.Config, logger *logrus.Logger, infra Infra) (*Container, error) {
	repos, err := NewRepositories(cfg, infra.PGPool)
	if err != nil {
		return nil, err
	}
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	notifier := newNotifier(cfg, infra, logger)
	var (
		index    application.EventIndexer
		images   application.ImageStore
		profiles application.ProfileCache
	)
	if infra.ES != nil {
		index = search.NewEventIndex(infra.ES, cfg.ESEventsIndex)
	}
	if infra.GCS != nil && cfg.GCSBucket != "" {
		images = blob.NewGCSImageStore(infra.GCS, cfg.GCSBucket)
	}
	if infra.Redis != nil && cfg.OrganizerCacheTTL > 0 {
		profiles = cache.NewOrganizerProfileCache(infra.Redis, cfg.OrganizerCacheTTL, logger)
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		Redis:  infra.Redis,
		JWT:    jwt,
		Repos:  repos,

		Users:         application.NewUserService(repos.Users, jwt, infra.Redis, profiles, logger),
		Events:        application.NewEventService(repos.Events, repos.Registrations, index, images, logger),
		Registrations: application.NewRegistrationService(repos.Events, repos.Registrations, notifier, cfg.CompanyName, logger),
		Reviews:       application.NewReviewService(repos.Reviews, repos.Profiles, repos.Events, profiles, logger),
		Organizers:    application.NewOrganizerService(repos.Users, repos.Profiles, repos.Reviews, profiles, logger),
	}, nil
}

// NewRepositories selects the storage driver.
func NewRepositories(cfg *config.Config, pool *pgxpool.Pool) (Repositories, error) {
	switch cfg.StorageDriver {
	case "memory":
		s := memory.NewStore()
		return Repositories{
			Users:         memory.NewUserRepository(s),
			Profiles:      memory.NewOrganizerProfileRepository(s),
			Events:        memory.NewEventRepository(s),
			Registrations: memory.NewRegistrationRepository(s),
			Reviews:       memory.NewReviewRepository(s),
		}, nil
	case "postgres", "":
		if pool == nil {
			return Repositories{}, fmt.Errorf("storage driver postgres requires a connection pool")
		}
		return Repositories{
			Users:         pginfra.NewUserRepository(pool),
			Profiles:      pginfra.NewOrganizerProfileRepository(pool),
			Events:        pginfra.NewEventRepository(pool),
			Registrations: pginfra.NewRegistrationRepository(pool),
			Reviews:       pginfra.NewReviewRepository(pool),
		}, nil
	default:
		return Repositories{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func newNotifier(cfg *config.Config, infra Infra, logger *logrus.Logger) application.Notifier {
	if !cfg.MailSendEnabled {
		return nil
	}
	switch {
	case cfg.MailTransport == "direct" && infra.Mailgun != nil:
		return mailer.NewDirectSender(infra.Mailgun)
	case infra.Rabbit != nil:
		return mailer.NewQueueSender(infra.Rabbit)
	}
	if logger != nil {
		logger.WithField("transport", cfg.MailTransport).Warn("mail transport unavailable; confirmations disabled")
	}
	return nil
}
