package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/config"
	"github.com/velizario/gemini-children-events-be/internal/application"
	"github.com/velizario/gemini-children-events-be/internal/container"
	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	pginfra "github.com/velizario/gemini-children-events-be/internal/infrastructure/postgres"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
)

const seedPassword = "password123"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.MailSendEnabled = false
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	var infra container.Infra
	if !cfg.UsesMemory() {
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), AppName: cfg.AppName + "-seed"})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		infra.PGPool = pool
	}

	c, err := container.New(cfg, logger, infra)
	if err != nil {
		log.Fatalf("container: %v", err)
	}

	admin := seedAdmin(ctx, c, logger)
	org := seedUser(ctx, c, logger, application.RegisterInput{
		Email: "organizer@example.com", Password: seedPassword, FirstName: "Olivia", LastName: "Stone",
		Role: entity.RoleOrganizer.String(), OrgName: strPtr("Little Explorers Club"),
	})
	seedUser(ctx, c, logger, application.RegisterInput{
		Email: "parent@example.com", Password: seedPassword, FirstName: "Peter", LastName: "Miles",
		Role: entity.RoleParent.String(),
	})

	if org != nil {
		seedEvent(ctx, c, logger, entity.PrincipalOf(org))
	}
	if admin != nil {
		helpers.LogInfo(logger, "seed complete", logrus.Fields{"admin": admin.Email, "password": seedPassword})
	}
}

// seedAdmin writes the admin directly; registration refuses the ADMIN role.
func seedAdmin(ctx context.Context, c *container.Container, logger *logrus.Logger) *entity.User {
	const email = "admin@example.com"
	if u, err := c.Repos.Users.GetByEmail(ctx, email); err == nil {
		return u
	}
	hash, err := helpers.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{Email: email, Password: hash, FirstName: "Ada", LastName: "Admin", Role: entity.RoleAdmin}
	if err := c.Repos.Users.Create(ctx, u); err != nil {
		helpers.LogError(logger, "failed to seed admin", err, nil)
		return nil
	}
	helpers.LogInfo(logger, "seeded user", logrus.Fields{"id": u.ID, "email": u.Email, "role": u.Role})
	return u
}

func seedUser(ctx context.Context, c *container.Container, logger *logrus.Logger, in application.RegisterInput) *entity.User {
	u, err := c.Users.Register(ctx, in)
	if apperr.Is(err, apperr.KindConflict) {
		existing, gerr := c.Repos.Users.GetByEmail(ctx, in.Email)
		if gerr != nil {
			helpers.LogError(logger, "failed to load existing user", gerr, logrus.Fields{"email": in.Email})
			return nil
		}
		return existing
	}
	if err != nil {
		helpers.LogError(logger, "failed to seed user", err, logrus.Fields{"email": in.Email})
		return nil
	}
	helpers.LogInfo(logger, "seeded user", logrus.Fields{"id": u.ID, "email": u.Email, "role": u.Role})
	return u
}

func seedEvent(ctx context.Context, c *container.Container, logger *logrus.Logger, org entity.Principal) {
	existing, err := c.Events.ListEventsByOrganizer(ctx, org.ID)
	if err == nil && len(existing) > 0 {
		return
	}
	price := 15.0
	ev, err := c.Events.CreateEvent(ctx, org, application.EventInput{
		Title:       "Junior Science Workshop",
		Description: "Hands-on experiments with colours, magnets and volcanoes.",
		Date:        time.Now().AddDate(0, 0, 14).Truncate(time.Hour),
		Location:    "Central Library, Room 2",
		Category:    strPtr("Science"),
		AgeGroup:    strPtr("6-9"),
		Price:       &price,
	})
	if err != nil {
		helpers.LogError(logger, "failed to seed event", err, nil)
		return
	}
	helpers.LogInfo(logger, "seeded event", logrus.Fields{"id": ev.ID, "title": ev.Title})
}

func strPtr(s string) *string { return &s }
