package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sauportal/notifier/modules/notifier"
	"github.com/sauportal/notifier/pkg/broadcast"
	"github.com/sauportal/notifier/pkg/config"
	"github.com/sauportal/notifier/pkg/directory"
	"github.com/sauportal/notifier/pkg/email"
	"github.com/sauportal/notifier/pkg/email/templates"
	"github.com/sauportal/notifier/pkg/httpserver"
	"github.com/sauportal/notifier/pkg/logger"
	mongodb "github.com/sauportal/notifier/pkg/mongo"
	"github.com/sauportal/notifier/pkg/notifications"
	redisconn "github.com/sauportal/notifier/pkg/redis"
)

// appConfig selects the pluggable backends and top-level runtime behavior.
// Component-specific settings live in each package's own Config.
type appConfig struct {
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	StorageDriver    string `env:"STORAGE_DRIVER" envDefault:"memory"`
	BroadcastDriver  string `env:"BROADCAST_DRIVER" envDefault:"memory"`
	MongoDatabase    string `env:"MONGODB_DATABASE" envDefault:"notifier"`
	SeedDummyData    bool   `env:"SEED_DUMMY_DATA" envDefault:"false"`
	MailDevDir       string `env:"MAIL_DEV_DIR" envDefault:"./tmp/emails"`
	BroadcastBufSize int    `env:"BROADCAST_BUFFER_SIZE" envDefault:"16"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Service terminated", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app appConfig
	config.MustLoad(&app)

	log := logger.New(logger.WithEnvironment(app.Environment, "notifier"))
	slog.SetDefault(log)

	var dirCfg directory.Config
	config.MustLoad(&dirCfg)
	dir, err := directory.New(dirCfg, directory.WithClientLogger(log))
	if err != nil {
		return fmt.Errorf("directory client: %w", err)
	}

	var mailCfg email.Config
	config.MustLoad(&mailCfg)

	var sender email.EmailSender
	if mailCfg.PostmarkServerToken != "" {
		sender, err = email.NewPostmarkClient(mailCfg)
		if err != nil {
			return fmt.Errorf("postmark client: %w", err)
		}
	} else {
		log.Info("No Postmark token configured, writing emails to disk",
			slog.String("dir", app.MailDevDir))
		sender = email.NewDevSender(app.MailDevDir)
	}

	mailer := email.NewService(sender, templates.MustNewResolver(),
		email.WithLogger(log),
		email.WithRetryAttempts(mailCfg.RetryAttempts),
		email.WithBackoff(email.ExponentialBackoff{InitialInterval: mailCfg.RetryDelay}),
	)
	defer mailer.Wait()

	broadcaster, broadcastChecks, err := newBroadcaster(ctx, app)
	if err != nil {
		return err
	}
	defer broadcaster.Close()

	storage, storageChecks, err := newStorage(ctx, app, log)
	if err != nil {
		return err
	}
	healthchecks := append(broadcastChecks, storageChecks...)

	dispatcher := notifications.NewDispatcher(storage, broadcaster, dir,
		notifications.WithDispatcherLogger(log),
		notifications.WithEmailer(mailer),
	)

	if app.SeedDummyData {
		notifications.Seed(ctx, dispatcher, log)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, healthchecks...))
	r.Mount("/", notifier.Router(notifier.RouterOptions{
		Dispatcher: dispatcher,
		Emails:     mailer,
		Logger:     log,
	}))

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	return srv.Run(ctx, r)
}

func newBroadcaster(ctx context.Context, app appConfig) (broadcast.Broadcaster[[]notifications.Notification], []func(context.Context) error, error) {
	switch app.BroadcastDriver {
	case "redis":
		var redisCfg redisconn.Config
		config.MustLoad(&redisCfg)
		client, err := redisconn.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		bc := broadcast.NewRedisBroadcaster[[]notifications.Notification](client, "notifier", app.BroadcastBufSize)
		return bc, []func(context.Context) error{redisconn.Healthcheck(client)}, nil
	case "memory":
		return broadcast.NewMemoryBroadcaster[[]notifications.Notification](app.BroadcastBufSize), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown broadcast driver %q", app.BroadcastDriver)
	}
}

func newStorage(ctx context.Context, app appConfig, log *slog.Logger) (notifications.Storage, []func(context.Context) error, error) {
	switch app.StorageDriver {
	case "mongo":
		var mongoCfg mongodb.Config
		config.MustLoad(&mongoCfg)
		client, err := mongodb.New(ctx, mongoCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		storage := notifications.NewMongoStorage(client.Database(app.MongoDatabase))
		if err := storage.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info("Using MongoDB notification storage", slog.String("database", app.MongoDatabase))
		return storage, []func(context.Context) error{mongodb.Healthcheck(client)}, nil
	case "memory":
		log.Info("Using in-memory notification storage")
		return notifications.NewMemoryStorage(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", app.StorageDriver)
	}
}
