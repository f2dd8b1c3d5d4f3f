package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifier/migrations"
	"github.com/dmitrymomot/notifier/modules/notifications"
	"github.com/dmitrymomot/notifier/pkg/config"
	"github.com/dmitrymomot/notifier/pkg/delivery"
	"github.com/dmitrymomot/notifier/pkg/digest"
	"github.com/dmitrymomot/notifier/pkg/email"
	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/httpserver"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/mongo"
	"github.com/dmitrymomot/notifier/pkg/notification"
	"github.com/dmitrymomot/notifier/pkg/pg"
	"github.com/dmitrymomot/notifier/pkg/preference"
	"github.com/dmitrymomot/notifier/pkg/redis"
	"github.com/dmitrymomot/notifier/pkg/resolver"
)

type appConfig struct {
	LogLevel  slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat logger.Format `env:"LOG_FORMAT" envDefault:"json"`

	// Storage selects the backing stores: "memory" for development,
	// "postgres" for the durable setup. NotificationsDriver can override
	// just the notification state store with "mongo".
	Storage             string `env:"STORAGE_DRIVER" envDefault:"memory"`
	NotificationsDriver string `env:"NOTIFICATIONS_DRIVER"`
	MongoDatabase       string `env:"MONGODB_DATABASE" envDefault:"notifier"`

	// PreferenceCacheRedis switches the preference cache from the in-process
	// LRU to Redis, shared across replicas.
	PreferenceCacheRedis bool `env:"PREFERENCE_CACHE_REDIS" envDefault:"false"`
	PreferenceCacheSize  int  `env:"PREFERENCE_CACHE_SIZE" envDefault:"1024"`

	// EmailDriver selects the EMAIL channel sink: "postmark", "dev"
	// (writes files to EmailDevDir) or empty to disable outbound email.
	EmailDriver     string `env:"EMAIL_DRIVER"`
	EmailDevDir     string `env:"EMAIL_DEV_DIR" envDefault:"./email-output"`
	RecipientDomain string `env:"EMAIL_RECIPIENT_DOMAIN" envDefault:"users.local"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(cfg.LogFormat),
		logger.WithAttr(slog.String("app", "notifier")),
	)
	slog.SetDefault(log)

	var (
		eventLog  event.Log
		prefStore preference.Store
		storage   notification.Storage
		checks    []func(context.Context) error
	)

	switch cfg.Storage {
	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return fmt.Errorf("load postgres config: %w", err)
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		if err := pg.Migrate(ctx, pool, pgCfg, migrations.FS, log); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

		eventLog = event.NewPGLog(pool)
		prefStore = preference.NewPGStore(pool)
		storage = notification.NewPGStorage(pool)
		checks = append(checks, pg.Healthcheck(pool))
	case "memory":
		eventLog = event.NewMemoryLog()
		prefStore = preference.NewMemoryStore()
		storage = notification.NewMemoryStorage()
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage)
	}

	if cfg.NotificationsDriver == "mongo" {
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return fmt.Errorf("load mongo config: %w", err)
		}
		db, err := mongo.NewWithDatabase(ctx, mongoCfg, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer db.Client().Disconnect(context.Background())

		storage = notification.NewMongoStorage(db)
		checks = append(checks, mongo.Healthcheck(db.Client()))
	}

	// Conflict retries live in a decorator so every backend carries the
	// same behavior.
	storage = notification.WithConflictRetry(storage)

	if cfg.PreferenceCacheRedis {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return fmt.Errorf("load redis config: %w", err)
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()

		prefStore = preference.NewRedisCachedStore(prefStore, client)
		checks = append(checks, redis.Healthcheck(client))
	} else if cfg.PreferenceCacheSize > 0 {
		prefStore = preference.NewCachedStore(prefStore, cfg.PreferenceCacheSize)
	}

	engineOpts := []resolver.Option{
		resolver.WithEventLog(eventLog),
		resolver.WithLogger(log),
	}

	engineOpts = append(engineOpts, resolver.WithEmailSink(buildEmailSink(cfg)))

	acc := digest.NewAccumulator()
	engineOpts = append(engineOpts, resolver.WithAccumulator(acc))

	engine := resolver.New(prefStore, storage, engineOpts...)
	defer engine.Wait()

	flusher := digest.NewFlusher(acc, engine, digest.WithLogger(log))
	scheduler := digest.NewScheduler(flusher, digest.WithSchedulerLogger(log))
	go func() {
		if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			log.ErrorContext(ctx, "digest scheduler stopped", logger.Error(err))
		}
	}()

	view := notification.NewView(storage, notification.WithEventLog(eventLog))
	svc := notifications.New(engine, storage, view, prefStore,
		notifications.WithEventLog(eventLog),
		notifications.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, checks...))
	r.Mount("/", svc.Router())

	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg); err != nil {
		return fmt.Errorf("load http config: %w", err)
	}
	return httpserver.New(srvCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

// buildEmailSink assembles the EMAIL channel sink. The recipient address is
// derived from the opaque user ID and a configured domain; deployments with
// a user directory should replace this resolver with a lookup against it.
func buildEmailSink(cfg appConfig) delivery.Sink {
	resolve := func(_ context.Context, userID string) (string, error) {
		return userID + "@" + cfg.RecipientDomain, nil
	}

	switch cfg.EmailDriver {
	case "postmark":
		var emailCfg email.Config
		config.MustLoad(&emailCfg)
		return delivery.NewEmailSink(email.MustNewPostmarkClient(emailCfg), resolve)
	case "dev":
		return delivery.NewEmailSink(email.NewDevSender(cfg.EmailDevDir), resolve)
	}
	// Outbound email disabled: acknowledge sends so email-channel
	// notifications are still recorded.
	return delivery.NoOpSink{}
}
