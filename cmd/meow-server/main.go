package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/NCNU-OpenSource/meow-server/core/catalog"
	"github.com/NCNU-OpenSource/meow-server/core/config"
	"github.com/NCNU-OpenSource/meow-server/core/logger"
	"github.com/NCNU-OpenSource/meow-server/core/notification"
	"github.com/NCNU-OpenSource/meow-server/core/scheduler"
	"github.com/NCNU-OpenSource/meow-server/core/server"
	"github.com/NCNU-OpenSource/meow-server/core/session"
	"github.com/NCNU-OpenSource/meow-server/integration/backend/docker"
	"github.com/NCNU-OpenSource/meow-server/integration/email/postmark"
	"github.com/NCNU-OpenSource/meow-server/integration/email/smtp"
	"github.com/NCNU-OpenSource/meow-server/transport/httpapi"
)

type appConfig struct {
	Catalog   catalog.Config
	Session   session.Config
	Scheduler scheduler.Config
	Server    server.Config
	Sandbox   docker.Config

	AppName  string `env:"APP_NAME" envDefault:"meow-server"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// NotifierDriver picks the delivery channel: smtp, postmark, dev, or log.
	// The smtp and postmark configs are loaded only for their own driver, so a
	// log-only setup needs no mail credentials.
	NotifierDriver string `env:"NOTIFIER_DRIVER" envDefault:"log"`
	NotifierDevDir string `env:"NOTIFIER_DEV_DIR" envDefault:"./notifications"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	cat, err := catalog.NewFileCatalogFromConfig(cfg.Catalog, catalog.WithLogger(log))
	if err != nil {
		return fmt.Errorf("load challenge catalog: %w", err)
	}
	log.Info("challenge catalog loaded",
		slog.String("path", cfg.Catalog.Path),
		logger.Count("templates", cat.Len()),
	)

	backend, err := docker.New(cfg.Sandbox, docker.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create sandbox backend: %w", err)
	}

	sender, err := newSender(cfg, log)
	if err != nil {
		return fmt.Errorf("create notifier: %w", err)
	}

	manager, err := session.NewManagerFromConfig(cfg.Session, cat, backend, sender,
		session.WithManagerLogger(log),
	)
	if err != nil {
		return fmt.Errorf("create challenge manager: %w", err)
	}

	daemon, err := scheduler.NewDaemonFromConfig(cfg.Scheduler, manager,
		scheduler.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("create scheduler daemon: %w", err)
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	handler := httpapi.NewRouter(manager, httpapi.WithLogger(log))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, handler))
	g.Go(daemon.Run(ctx))
	if cfg.Catalog.Watch {
		g.Go(func() error {
			if err := cat.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	log.Info("server started",
		slog.String("addr", cfg.Server.Addr),
		slog.String("notifier", cfg.NotifierDriver),
		slog.String("sandbox", cfg.Sandbox.Container),
	)

	return g.Wait()
}

func newLogger(cfg appConfig) *slog.Logger {
	opts := []logger.Option{logger.WithDevelopment(cfg.AppName)}
	if cfg.Env == "production" {
		opts = []logger.Option{logger.WithProduction(cfg.AppName)}
	}
	opts = append(opts, logger.WithLevel(parseLevel(cfg.LogLevel)))
	return logger.New(opts...)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newSender(cfg appConfig, log *slog.Logger) (notification.Sender, error) {
	switch cfg.NotifierDriver {
	case "smtp":
		var smtpCfg smtp.Config
		if err := config.Load(&smtpCfg); err != nil {
			return nil, err
		}
		return smtp.New(smtpCfg)
	case "postmark":
		var pmCfg postmark.Config
		if err := config.Load(&pmCfg); err != nil {
			return nil, err
		}
		return postmark.New(pmCfg)
	case "dev":
		return notification.NewDevSender(cfg.NotifierDevDir), nil
	case "log":
		return notification.NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("%w: unknown notifier driver %q", notification.ErrInvalidConfig, cfg.NotifierDriver)
	}
}
