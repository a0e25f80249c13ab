package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/vocabtutor/internal/ai"
	"github.com/example/vocabtutor/internal/config"
	"github.com/example/vocabtutor/internal/database"
	"github.com/example/vocabtutor/internal/excel"
	"github.com/example/vocabtutor/internal/notify"
	"github.com/example/vocabtutor/internal/scheduler"
	"github.com/example/vocabtutor/internal/server"
	"github.com/example/vocabtutor/internal/task"
)

func main() {
	importPath := flag.String("import", "", "import vocabulary from an .xlsx or .csv file and exit")
	learner := flag.String("learner", server.DefaultLearnerID, "learner identity for the import and the reminder job")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	progressRepo := database.NewProgressRepository()

	if *importPath != "" {
		importCfg := excel.DefaultImportConfig()
		importCfg.FilePath = *importPath
		result, err := excel.ImportProgress(*learner, importCfg, progressRepo)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		logger.Info("import finished",
			"processed", result.TotalProcessed,
			"created", result.Created,
			"skipped", result.Skipped,
			"errors", len(result.Errors),
		)
		for _, e := range result.Errors {
			logger.Warn("import error", "detail", e)
		}
		return
	}

	words := ai.New(ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.AITimeout,
	})
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set, running with reviews only")
	}

	svc := task.NewService(
		progressRepo,
		database.NewLedgerRepository(),
		database.NewSettingsRepository(),
		words,
		logger,
	)

	reminder := &notify.Reminder{
		Svc:         svc,
		Email:       notify.NewBrevoClient(cfg.BrevoAPIKey, cfg.SenderEmail, cfg.RecipientEmail),
		PlatformURL: cfg.PlatformURL,
		Logger:      logger,
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Warn("telegram notifier disabled", "error", err)
		} else {
			reminder.Telegram = tg
		}
	}

	srv := server.New(svc, words, reminder, cfg.ReminderSecret, logger)

	var cron *scheduler.Scheduler
	if cfg.ReminderHour >= 0 {
		cron = scheduler.New(reminder, *learner, cfg.ReminderHour, logger)
		cron.Start()
	}

	// Run the server until interrupted.
	go func() {
		logger.Info("server started", "addr", cfg.Addr)
		if err := srv.Start(cfg.Addr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutting down", "signal", sig.String())

	if cron != nil {
		cron.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
