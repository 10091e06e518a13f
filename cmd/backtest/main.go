// Package main provides the entry point for the backtest CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/backtest"
	"github.com/yourusername/pace-bias/internal/config"
	"github.com/yourusername/pace-bias/internal/database"
	"github.com/yourusername/pace-bias/internal/logger"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/repository"
	"github.com/yourusername/pace-bias/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		anchorDate = flag.String("anchor-date", "", "Override replay window end (YYYY-MM-DD)")
		years      = flag.Int("years", 0, "Override replay window length in years")
		output     = flag.String("output", "", "Override artifact output directory")
		top        = flag.Int("top", 20, "Console report rows per pipeline")
	)
	flag.Parse()

	bootLog := logrus.New()
	bootLog.SetFormatter(&logrus.JSONFormatter{})
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, bootLog)
	applyOverrides(cfg, *anchorDate, *years, *output, bootLog)

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"run_id":  uuid.New().String(),
		"markets": cfg.Backtest.Markets,
	}).Info("starting backtest")

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db, time.Duration(cfg.Cards.HistoryCacheTTLSeconds)*time.Second)
	if err != nil {
		appLog.Fatalf("Failed to build repositories: %v", err)
	}

	svc := service.NewBacktestService(cfg, repos, appLog)
	today := models.YMDFromTime(time.Now())
	if err := svc.Run(ctx, today); err != nil {
		appLog.Fatalf("Backtest failed: %v", err)
	}

	printConsoleReports(cfg, *top, appLog)
}

func loadConfigWithSecrets(path string, appLog *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		appLog.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			appLog.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			appLog.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		appLog.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, anchorDate string, years int, output string, appLog *logrus.Logger) {
	if anchorDate != "" {
		if _, err := models.ParseISODate(anchorDate); err != nil {
			appLog.Fatalf("Invalid anchor date: %v", err)
		}
		cfg.Backtest.AnchorDate = anchorDate
	}
	if years > 0 {
		cfg.Backtest.Years = years
	}
	if output != "" {
		cfg.Backtest.OutputPath = output
	}
}

func printConsoleReports(cfg *config.Config, top int, appLog *logrus.Logger) {
	for _, prefix := range []string{backtest.PairsReportPrefix, backtest.TrifectaReportPrefix} {
		path, err := backtest.LatestReportPath(cfg.Backtest.OutputPath, prefix)
		if err != nil {
			continue
		}
		report, err := backtest.LoadBucketReport(path)
		if err != nil {
			appLog.Warnf("Failed to load %s: %v", filepath.Base(path), err)
			continue
		}
		fmt.Println(backtest.GenerateConsoleReport(report, top))
	}
}
