package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/backtest"
	"github.com/yourusername/pace-bias/internal/config"
	"github.com/yourusername/pace-bias/internal/metrics"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/repository"
)

// BacktestService runs the configured backtest pipelines over the replay
// window and writes their artifacts.
type BacktestService struct {
	cfg    *config.Config
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewBacktestService creates a new backtest service.
func NewBacktestService(cfg *config.Config, repos *repository.Repositories, logger *logrus.Logger) *BacktestService {
	return &BacktestService{cfg: cfg, repos: repos, logger: logger}
}

// Run replays the configured window through every pipeline the configured
// markets call for. Result rows and payouts are loaded once and shared.
func (s *BacktestService) Run(ctx context.Context, today models.YMD) error {
	from, to, err := s.cfg.BacktestWindow(today)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"from": from.ISO(),
		"to":   to.ISO(),
	}).Info("loading replay window")

	rows, err := s.repos.Result.GetByDateRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to load result rows: %w", err)
	}
	payouts, err := s.repos.Payout.GetByDateRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to load payouts: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"rows":    len(rows),
		"payouts": len(payouts),
	}).Info("replay window loaded")

	unit := decimal.NewFromFloat(s.cfg.Backtest.UnitStake)
	markets := map[string]bool{}
	for _, m := range s.cfg.Backtest.Markets {
		markets[m] = true
	}

	if markets[string(models.MarketQuinella)] || markets[string(models.MarketWide)] {
		if err := s.runCombos(ctx, "pairs_backtest", backtest.PairsReportPrefix,
			backtest.PairGrid(), rows, payouts, unit, from, to); err != nil {
			return err
		}
	}
	if markets[string(models.MarketTrifecta)] {
		if err := s.runCombos(ctx, "trifecta_backtest", backtest.TrifectaReportPrefix,
			backtest.TrifectaGrid(), rows, payouts, unit, from, to); err != nil {
			return err
		}
	}
	if markets[string(models.MarketWin)] || markets[string(models.MarketPlace)] {
		if err := s.runStyle(rows, payouts, unit, from, to); err != nil {
			return err
		}
	}

	return nil
}

func (s *BacktestService) runCombos(
	ctx context.Context,
	pipeline, prefix string,
	grid []backtest.Params,
	rows []models.ResultRow,
	payouts map[models.RaceKey]*models.PayoutRecord,
	unit decimal.Decimal,
	from, to models.YMD,
) error {
	start := time.Now()
	agg := backtest.NewAggregator(s.repos.History, grid, s.logger)
	table, err := agg.Run(ctx, rows, payouts, unit)
	if err != nil {
		metrics.RecordPipelineRun(pipeline, "failure")
		return fmt.Errorf("%s failed: %w", pipeline, err)
	}

	report := backtest.BucketReport{From: from.ISO(), To: to.ISO(), Rows: table.Rows()}
	path := filepath.Join(s.cfg.Backtest.OutputPath, backtest.ReportName(prefix, to))
	if err := backtest.WriteBucketReport(path, report); err != nil {
		metrics.RecordPipelineRun(pipeline, "failure")
		return err
	}

	elapsed := time.Since(start)
	metrics.RecordPipelineRun(pipeline, "success")
	metrics.RecordBacktestDuration(elapsed.Seconds())
	metrics.UpdateBucketsExported(pipeline, float64(len(report.Rows)))

	s.logger.WithFields(logrus.Fields{
		"pipeline": pipeline,
		"buckets":  len(report.Rows),
		"artifact": path,
		"elapsed":  elapsed.Round(time.Millisecond).String(),
	}).Info("backtest pipeline finished")

	return nil
}

func (s *BacktestService) runStyle(
	rows []models.ResultRow,
	payouts map[models.RaceKey]*models.PayoutRecord,
	unit decimal.Decimal,
	from, to models.YMD,
) error {
	start := time.Now()
	table := backtest.RunStyle(rows, payouts, unit)

	report := backtest.StyleReport{
		From: from.ISO(),
		To:   to.ISO(),
		By:   "venue_surface_style",
		Rows: table.Rows(),
	}
	path := filepath.Join(s.cfg.Backtest.OutputPath, backtest.ReportName(backtest.StyleReportPrefix, to))
	if err := backtest.WriteStyleReport(path, report); err != nil {
		metrics.RecordPipelineRun("style_backtest", "failure")
		return err
	}

	metrics.RecordPipelineRun("style_backtest", "success")
	metrics.RecordBacktestDuration(time.Since(start).Seconds())
	metrics.UpdateBucketsExported("style_backtest", float64(len(report.Rows)))

	s.logger.WithFields(logrus.Fields{
		"pipeline": "style_backtest",
		"buckets":  len(report.Rows),
		"artifact": path,
	}).Info("backtest pipeline finished")

	return nil
}
