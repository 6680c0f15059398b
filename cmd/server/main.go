package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/alerting"
	"github.com/mamadbah2/farmpulse/internal/config"
	"github.com/mamadbah2/farmpulse/internal/notifier"
	"github.com/mamadbah2/farmpulse/internal/repository/mongodb"
	"github.com/mamadbah2/farmpulse/internal/repository/sheets"
	"github.com/mamadbah2/farmpulse/internal/repository/standards"
	"github.com/mamadbah2/farmpulse/internal/scheduler"
	"github.com/mamadbah2/farmpulse/internal/server/handlers"
	"github.com/mamadbah2/farmpulse/internal/server/router"
	insightssvc "github.com/mamadbah2/farmpulse/internal/service/insights"
	whatsappclient "github.com/mamadbah2/farmpulse/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmpulse/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := store.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure mongodb indexes", zap.Error(err))
	}

	// Growth standards come from a spreadsheet when configured, otherwise the
	// built-in reference table.
	var standardsProvider alerting.StandardsProvider
	if cfg.Sheets.SpreadsheetID != "" {
		sheetStandards, err := sheets.NewGrowthStandardRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init growth standards repository", zap.Error(err))
		}
		standardsProvider = sheetStandards
	} else {
		baseLogger.Info("no growth standards sheet configured, using built-in reference table")
		standardsProvider = standards.NewStaticProvider()
	}

	var alertNotifier alerting.Notifier
	if cfg.WhatsApp.AccessToken != "" {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		alertNotifier = notifier.NewWhatsAppNotifier(whatsClient, cfg.WhatsApp.RecipientID, baseLogger.Named("notifier.whatsapp"))
		baseLogger.Info("whatsapp notifier enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, notifications are persisted only")
	}

	dispatcher := alerting.NewDispatcher(store, alertNotifier, baseLogger.Named("alerting.dispatcher"))
	engine := alerting.NewEngine(store, standardsProvider, dispatcher, baseLogger.Named("alerting.engine"))
	insightsService := insightssvc.NewService(store, standardsProvider, baseLogger.Named("svc.insights"))

	alertsHandler := handlers.NewAlertsHandler(engine, insightsService, store, baseLogger.Named("handlers.alerts"))
	engineRouter := router.New(alertsHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Sweep, engine, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
