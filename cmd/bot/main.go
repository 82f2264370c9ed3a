package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			logrus.WithField("missing", missing.Keys).Fatal("Отсутствуют обязательные переменные окружения. Программа принудительно остановлена!")
		}
		logrus.WithError(err).Fatal("Could not load application configuration")
	}

	log, closeLog := logger.New(cfg)
	defer closeLog() //nolint:errcheck // best effort on shutdown

	mainLogger := log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"chat_id":       cfg.TelegramChatID,
		"poll_interval": cfg.PollInterval.String(),
		"endpoint":      cfg.Endpoint,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		mainLogger.WithError(err).Error("Application stopped with error")
		closeLog() //nolint:errcheck // os.Exit skips deferred calls
		os.Exit(1)
	}
}

// run blocks until ctx is cancelled. Optional features that fail to start are
// disabled with a warning; polling itself never depends on them.
func run(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) error {
	mainLogger := log.WithField("component", "main")

	journal, closeJournal := openJournal(ctx, cfg, mainLogger)
	defer closeJournal()

	bot, online, err := newBot(cfg, log.WithField("component", "telebot"))
	if err != nil {
		return fmt.Errorf("could not create Telegram bot: %w", err)
	}

	watcher := app.NewStatusWatcher(
		practicum.NewClient(cfg.Endpoint, cfg.PracticumToken),
		app.NewChatNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID),
		journal,
		log.WithField("component", "status_watcher"),
		time.Now().Unix(),
	)

	if online {
		telegram.RegisterBotCommands(ctx, bot, cfg.TelegramChatID, cfg.PollInterval, watcher, journal, log.WithField("component", "commands"))
		go bot.Start()
		defer bot.Stop()
		mainLogger.Info("Bot command handlers registered, long polling started")
	}

	pollScheduler := scheduler.NewPollScheduler(watcher, log.WithField("component", "scheduler"), cfg.PollInterval)
	pollScheduler.Start(ctx)

	mainLogger.Info("Application setup complete")
	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	pollScheduler.Stop()
	mainLogger.Info("Application shut down gracefully")
	return nil
}

// openJournal connects the optional delivery journal. On failure the journal stays
// disabled (nil) and the returned cleanup is a no-op.
func openJournal(ctx context.Context, cfg *config.AppConfig, logger *logrus.Entry) (homework.Journal, func()) {
	noop := func() {}
	if cfg.DatabaseURL == "" {
		return nil, noop
	}

	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Warn("Could not connect to database, delivery journal disabled")
		return nil, noop
	}

	repo := idb.NewPostgresJournalRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Warn("Could not prepare journal schema, delivery journal disabled")
		closeDB(db, logger)
		return nil, noop
	}
	logger.Info("Delivery journal enabled")
	return repo, func() { closeDB(db, logger) }
}

// newBot creates the Telegram bot. With commands enabled it asks the Bot API for its
// identity (getMe); if that fails the bot is created offline, which can still send
// notifications but does not receive commands. online reports which one happened.
func newBot(cfg *config.AppConfig, logger *logrus.Entry) (bot *telebot.Bot, online bool, err error) {
	settings := telebot.Settings{
		URL:    cfg.TelegramAPIURL,
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			logCtx := logger.WithError(err)
			if c != nil && c.Chat() != nil {
				logCtx = logCtx.WithFields(logrus.Fields{"chat_id": c.Chat().ID, "text": c.Text()})
			}
			logCtx.Error("Telegram bot error")
		},
	}

	if cfg.BotCommands {
		bot, err = telebot.NewBot(settings)
		if err == nil {
			return bot, true, nil
		}
		logger.WithError(err).Warn("Telegram getMe failed, bot commands disabled until restart")
	}

	settings.Offline = true
	bot, err = telebot.NewBot(settings)
	return bot, false, err
}

func closeDB(db *sql.DB, logger *logrus.Entry) {
	if err := db.Close(); err != nil {
		logger.WithError(err).Warn("Error closing database")
	}
}
