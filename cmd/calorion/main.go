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

	"calorion/internal/auth"
	"calorion/internal/chat"
	"calorion/internal/config"
	"calorion/internal/dailylog"
	"calorion/internal/database"
	"calorion/internal/llm"
	"calorion/internal/logger"
	"calorion/internal/plan"
	"calorion/internal/profile"
	"calorion/internal/reminder"
	"calorion/internal/server"
	"calorion/internal/tips"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		appLog.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	// Remote generation is optional. Without a key the app serves
	// deterministic fallback plans and offline chat replies.
	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			appLog.Fatal("failed to initialize Gemini client", "error", err)
		}
		if closer, ok := geminiClient.(llm.Closer); ok {
			defer closer.Close()
		}
		textGen = geminiClient
	} else {
		appLog.Warn("GEMINI_API_KEY not set, running in fallback-only mode")
	}

	profileRepo := profile.NewRepository(db.SQL)
	profileProvider := profile.NewProvider(profileRepo)
	planRepo := plan.NewRepository(db.SQL)
	planSvc := plan.NewService(planRepo, profileProvider, plan.NewGenerator(textGen), appLog, cfg.GenerationTimeout)
	chatRepo := chat.NewRepository(db.SQL)
	chatSvc := chat.NewService(chatRepo, textGen, appLog)
	logRepo := dailylog.NewRepository(db.SQL)
	reminderRepo := reminder.NewRepository(db.SQL)

	tipsCatalog, err := tips.NewCatalog()
	if err != nil {
		appLog.Fatal("failed to load tips catalog", "error", err)
	}

	sweeper := plan.NewSweeper(planSvc, profileProvider, cfg.SweepInterval, appLog)
	go sweeper.Run(ctx)

	var notifier reminder.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := reminder.NewTelegramNotifier(cfg.TelegramBotToken)
		if err != nil {
			appLog.Fatal("failed to initialize telegram notifier", "error", err)
		}
		notifier = tg
	} else {
		appLog.Warn("TELEGRAM_BOT_TOKEN not set, reminders will not be delivered")
	}
	scheduler := reminder.NewScheduler(reminderRepo, notifier, appLog)
	go scheduler.Run(ctx)

	tokens := auth.NewManager(cfg.JWTSecret, 0)
	srv := server.NewServer(appLog, tokens, profileRepo, planSvc, planRepo,
		chatSvc, chatRepo, logRepo, tipsCatalog, reminderRepo)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	go func() {
		appLog.Info("http server listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http server shutdown failed", "error", err)
	}
}
