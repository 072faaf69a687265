package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/config"
	"github.com/velizario/gemini-children-events-be/internal/container"
	pginfra "github.com/velizario/gemini-children-events-be/internal/infrastructure/postgres"
	"github.com/velizario/gemini-children-events-be/internal/infrastructure/search"
	"github.com/velizario/gemini-children-events-be/internal/interface/middleware"
	"github.com/velizario/gemini-children-events-be/internal/router"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
	"github.com/velizario/gemini-children-events-be/pkg/mailer"
	"github.com/velizario/gemini-children-events-be/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	infra, closeInfra, err := connect(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer closeInfra()

	c, err := container.New(cfg, logger, infra)
	if err != nil {
		log.Fatalf("container: %v", err)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "storage": cfg.StorageDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		helpers.LogError(logger, "server forced to shutdown", err, nil)
	}
	logger.Info("server exited properly")
}

// connect opens the configured backends. Postgres is required unless the
// memory driver is selected; every other backend is optional and skipped
// with a warning when unreachable.
func connect(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (container.Infra, func(), error) {
	var (
		infra   container.Infra
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if !cfg.UsesMemory() {
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:         cfg.PostgresDSN(),
			AppName:     cfg.AppName,
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return infra, closeAll, err
		}
		closers = append(closers, pool.Close)
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			closeAll()
			return infra, func() {}, err
		}
		infra.PGPool = pool
	} else {
		logger.Warn("STORAGE_DRIVER=memory; data is lost on restart")
	}

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pctx).Err()
		cancel()
		if err != nil {
			helpers.LogError(logger, "redis unavailable; sessions, rate limits and caching disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
			_ = rdb.Close()
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			infra.Redis = rdb
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			helpers.LogError(logger, "gcs unavailable; image uploads disabled", err, nil)
		} else {
			closers = append(closers, func() { _ = gcs.Close() })
			infra.GCS = gcs
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(ctx, addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogError(logger, "elasticsearch unavailable; event search disabled", err, nil)
		} else {
			if err := search.NewEventIndex(es, cfg.ESEventsIndex).EnsureIndex(ctx); err != nil {
				helpers.LogError(logger, "failed to ensure events index", err, logrus.Fields{"index": cfg.ESEventsIndex})
			}
			infra.ES = es
		}
	}

	if cfg.MailSendEnabled {
		switch cfg.MailTransport {
		case "direct":
			if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.MailgunSender != "" {
				infra.Mailgun = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender).WithAPIBase(cfg.MailgunAPIBase)
			}
		default:
			pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
			if err != nil {
				helpers.LogError(logger, "rabbitmq unavailable; confirmation emails disabled", err, logrus.Fields{"queue": cfg.RabbitMQEmailQueue})
			} else {
				pub.AppID = cfg.AppName
			closers = append(closers, pub.Close)
				infra.Rabbit = pub
			}
		}
	}

	return infra, closeAll, nil
}
