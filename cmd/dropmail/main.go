package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Alipio135/dropmail-ai-reply-55/internal/api"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/auth"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/config"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/database"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/mailbox"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/notify"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/parser"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/reply"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/session"
)

// The core is a library consumed by a presentation layer; this binary wires
// it against the stub collaborators and walks one full reply cycle so the
// module stays runnable end to end.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting dropmail demo run")

	// Connect to database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Notification sinks
	sinks := notify.Fanout{notify.NewLogSink(logger)}
	if cfg.TelegramEnabled() {
		tgSink, err := notify.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Error("failed to create telegram sink", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, tgSink)
		logger.Info("telegram notifications enabled", "chat_id", cfg.TelegramChatID)
	}

	// Create components
	client := api.NewStub(cfg.StubLatency)
	codec := session.NewCodec([]byte(cfg.SessionKey))
	store := session.NewSQLiteStore(db, codec, logger)
	htmlParser := parser.NewHTMLParser()
	loader := mailbox.NewLoader(client, htmlParser, logger)

	authSvc := auth.NewService(auth.Deps{
		Store:    store,
		Provider: auth.NewStubProvider(cfg.StubLatency),
		Client:   client,
		Events:   sinks,
		Logger:   logger,
	})

	guard := auth.NewGuard(authSvc)
	guard.Watch(func(d auth.Decision) {
		logger.Info("route decision changed", "decision", d)
	})

	// Resolve the persisted session, logging in when none survives.
	authSvc.Restore(ctx)
	if authSvc.State() != auth.StateAuthenticated {
		if err := authSvc.Login(ctx, "john@x.com", "anything"); err != nil {
			logger.Error("login failed", "error", err)
			os.Exit(1)
		}
	}
	sess := authSvc.Session()
	logger.Info("authenticated", "email", sess.Email, "display_name", sess.DisplayName)

	if !sess.MailboxConnected {
		if err := authSvc.ConnectMailbox(ctx, map[string]string{"provider": "stub"}); err != nil {
			logger.Error("mailbox connect failed", "error", err)
			os.Exit(1)
		}
	}

	// List the inbox
	emails, err := loader.Fetch(ctx)
	if err != nil {
		logger.Error("failed to fetch emails", "error", err)
		os.Exit(1)
	}
	for _, msg := range emails {
		logger.Info("inbox", "id", msg.ID, "from", msg.Sender.Email, "subject", msg.Subject)
	}

	// Walk one reply cycle for the first message
	if len(emails) > 0 {
		wf := reply.New(emails[0].ID, reply.Deps{
			Loader: loader,
			Client: client,
			Events: sinks,
			Logger: logger,
		})
		defer wf.Close()

		if err := wf.Open(ctx); err != nil {
			logger.Error("failed to open reply", "error", err)
			os.Exit(1)
		}
		if err := wf.Generate(ctx); err != nil {
			logger.Error("failed to generate reply", "error", err)
			os.Exit(1)
		}
		logger.Info("draft ready", "text", wf.Draft().Text)
		if err := wf.Send(ctx); err != nil {
			logger.Error("failed to send reply", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("demo run finished")
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    false,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
