// Package main provides the entry point for the nightly pipeline daemon. It
// schedules the card augmentation, backtest and recommendation builds and
// exposes health and metrics endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/config"
	"github.com/yourusername/pace-bias/internal/database"
	"github.com/yourusername/pace-bias/internal/datasource"
	"github.com/yourusername/pace-bias/internal/health"
	"github.com/yourusername/pace-bias/internal/logger"
	"github.com/yourusername/pace-bias/internal/metrics"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/reco"
	"github.com/yourusername/pace-bias/internal/repository"
	"github.com/yourusername/pace-bias/internal/scheduler"
	"github.com/yourusername/pace-bias/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("nightly pipeline daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect and verify the JV-Data tables are loaded
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	appLog.Info("database connection established")

	// Initialize repositories and services
	repos, err := repository.NewRepositories(db, time.Duration(cfg.Cards.HistoryCacheTTLSeconds)*time.Second)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build repositories")
	}

	factory := datasource.NewFactory(cfg.Cards, appLog)
	cardSvc := service.NewCardService(factory.NewDaySource(), factory.Local(), repos.History, appLog)
	backtestSvc := service.NewBacktestService(cfg, repos, appLog)
	recoSvc := service.NewRecoService(factory.Local(), cfg.Backtest.OutputPath, reco.Options{
		WinROIMin:    cfg.Reco.WinROIMin,
		PlaceROIMin:  cfg.Reco.PlaceROIMin,
		WinOddsMin:   cfg.Reco.WinOddsMin,
		WinOddsMax:   cfg.Reco.WinOddsMax,
		NoWinOddsCut: cfg.Reco.NoWinOddsCut,
	}, appLog)

	// Schedule the nightly run
	location, err := time.LoadLocation(cfg.Schedule.TimeZone)
	if err != nil {
		appLog.WithError(err).Fatal("Invalid schedule time zone")
	}
	sched := scheduler.NewScheduler(location, appLog)
	nightly := nightlyJob(cardSvc, backtestSvc, recoSvc, appLog)
	if err := sched.Schedule("nightly", cfg.Schedule.NightlyCron, nightly); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule nightly job")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer func() { _ = sched.Stop() }()

	// Health and metrics endpoints
	healthSrv := health.NewServer(health.Config{
		ServiceName: "pace-bias-nightly",
		Version:     Version,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthSrv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthSrv.SetReady(true)

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg, appLog)
	}

	appLog.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("daemon ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	appLog.WithField("signal", sig.String()).Info("shutting down")
	healthSrv.SetReady(false)
	cancel()
}

// nightlyJob composes the full pipeline for one day: augment the card, replay
// the backtest window, rebuild recommendations. A missing card document is
// not an error; there is no racing most weekdays.
func nightlyJob(
	cardSvc *service.CardService,
	backtestSvc *service.BacktestService,
	recoSvc *service.RecoService,
	appLog *logrus.Logger,
) scheduler.Job {
	return func(ctx context.Context, today models.YMD) error {
		day, err := cardSvc.AugmentDay(ctx, today)
		switch {
		case err == nil:
			if _, err := cardSvc.WriteBiasReport(day); err != nil {
				return err
			}
		case errors.Is(err, models.ErrNotFound):
			appLog.WithField("date", today.ISO()).Info("no card document, skipping augmentation")
		default:
			return err
		}

		if err := backtestSvc.Run(ctx, today); err != nil {
			return err
		}

		if day != nil {
			if _, err := recoSvc.BuildDay(ctx, today); err != nil {
				return err
			}
		}

		metrics.UpdateLastRunTimestamp("nightly", float64(time.Now().Unix()))
		return nil
	}
}

func startMetricsServer(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		appLog.WithField("port", cfg.Metrics.Port).Info("metrics server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
