// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tg-config-bot/internal/application"
	"tg-config-bot/internal/config"
	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
	tele "tg-config-bot/internal/infra/adapters/telegram"
	httpapi "tg-config-bot/internal/infra/http"
	"tg-config-bot/internal/infra/logging"
	"tg-config-bot/internal/infra/metrics"
	red "tg-config-bot/internal/infra/redis"
	"tg-config-bot/internal/infra/worker"
	"tg-config-bot/internal/usecase"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted secrets)")
	noop := flag.Bool("noop", false, "with -dev: read events from stdin and log Bot API calls instead of sending them")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg.Runtime.Noop = *noop && cfg.Runtime.Dev

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if *noop && !cfg.Runtime.Dev {
		logger.Warn().Msg("-noop is ignored without -dev")
	}
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit, cfg.Bot.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("bot stopped")
		os.Exit(1)
	}
	logger.Info().Msg("bye")
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	// ---- Telegram ----
	var (
		bot      adapter.TelegramBotAdapter
		realBot  *tele.RealTelegramBotAdapter
		noopBot  *tele.NoopBotAdapter
		username = cfg.Bot.Username
	)
	if cfg.Runtime.Noop {
		noopBot = tele.NewNoopBotAdapter(logger)
		bot = noopBot
	} else {
		r, err := tele.NewRealTelegramBotAdapter(cfg.Bot.Token, logger)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		realBot, bot = r, r
		if username == "" {
			username = r.Username()
		}
	}
	logger.Info().
		Str("bot", username).
		Str("mode", cfg.Bot.Mode).
		Str("chat", cfg.Bot.Chat.String()).
		Str("token", logging.Redact(cfg.Bot.Token, cfg.Runtime.Dev)).
		Bool("noop", cfg.Runtime.Noop).
		Msg("starting bot")

	// ---- Use cases ----
	access := usecase.NewAccessUseCase(bot, cfg.Bot.Chat, logger)
	facade := application.NewBotFacade(bot, access, application.Options{
		BotUsername:       username,
		GateInlineQueries: cfg.Bot.GateInlineQueries,
	}, logger)

	if realBot != nil && !cfg.Bot.SkipCommandMenu {
		if err := realBot.SetCommands(ctx, model.CommandDescriptions()); err != nil {
			logger.Warn().Err(err).Msg("cannot publish the command menu")
		}
	}

	// ---- Worker pool ----
	// In-flight and queued events finish with their own deadlines after shutdown starts.
	pool := worker.NewPool(cfg.Bot.Workers, logger)
	pool.Start(context.WithoutCancel(ctx))
	defer pool.Stop()

	task := func(ev model.Event) worker.Task {
		return application.EventTask(facade, ev, cfg.Bot.HandlerTimeout)
	}

	// ---- Admin HTTP ----
	admin := httpapi.NewServer(cfg.Admin.Port, logger)

	g, gctx := errgroup.WithContext(ctx)

	switch {
	case cfg.Runtime.Noop:
		g.Go(func() error {
			logger.Info().Msg("reading events from stdin (cb:<payload>, iq:<query>, or message text)")
			return noopBot.ReadConsole(gctx, os.Stdin, func(ctx context.Context, ev model.Event) error {
				return pool.SubmitWait(ctx, task(ev))
			})
		})

	case cfg.Bot.Mode == config.ModeWebhook:
		secret := cfg.Webhook.Secret
		if secret == "" {
			secret = uuid.NewString()
			logger.Info().Str("secret", logging.Redact(secret, cfg.Runtime.Dev)).Msg("generated webhook secret")
		}
		admin.HandleWebhook(cfg.Webhook.Path, realBot.WebhookHandler(secret, func(_ context.Context, ev model.Event) error {
			return pool.Submit(task(ev))
		}))
		// bind before Telegram learns the URL so the first delivery has a listener
		if err := admin.Listen(); err != nil {
			return err
		}
		if err := realBot.SetWebhook(ctx, cfg.Webhook.URL, secret); err != nil {
			return err
		}
		logger.Info().Str("url", cfg.Webhook.URL).Str("path", cfg.Webhook.Path).Msg("webhook registered")

	default:
		if err := realBot.DeleteWebhook(ctx); err != nil {
			logger.Warn().Err(err).Msg("cannot delete webhook before polling")
		}
		poll := func(ctx context.Context) error {
			return realBot.StartPolling(ctx, func(ctx context.Context, ev model.Event) error {
				return pool.SubmitWait(ctx, task(ev))
			})
		}
		if cfg.Redis.URL != "" {
			rc, err := red.NewClient(ctx, &cfg.Redis)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer rc.Close()
			lease := red.NewPollerLease(red.NewLocker(rc), red.LeaseKey(cfg.Bot.Token), cfg.Redis.LockTTL, logger)
			inner := poll
			poll = func(ctx context.Context) error { return lease.Run(ctx, inner) }
		}
		g.Go(func() error { return poll(gctx) })
	}

	g.Go(admin.Start)

	// ---- Graceful shutdown ----
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return admin.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
