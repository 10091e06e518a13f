package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/backtest"
	"github.com/yourusername/pace-bias/internal/datasource"
	"github.com/yourusername/pace-bias/internal/metrics"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/reco"
)

// RecoService builds the recommendation document for a race day from the
// latest backtest artifacts and the augmented day card.
type RecoService struct {
	store     *datasource.LocalDirSource
	reportDir string
	opts      reco.Options
	logger    *logrus.Logger
}

// NewRecoService creates a new recommendation service. reportDir is the
// backtest artifact directory.
func NewRecoService(store *datasource.LocalDirSource, reportDir string, opts reco.Options, logger *logrus.Logger) *RecoService {
	return &RecoService{
		store:     store,
		reportDir: reportDir,
		opts:      opts,
		logger:    logger,
	}
}

// BuildDay builds and persists recommendations for one day. Missing backtest
// artifacts degrade to an empty table: every race still appears in the
// output, no market gate opens. The augmented card document must already be
// on disk.
func (s *RecoService) BuildDay(ctx context.Context, date models.YMD) (*models.DayReco, error) {
	day, err := s.store.FetchDay(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day card %s: %w", date.ISO(), err)
	}

	bucketRows := s.loadBucketRows()
	styleRows := s.loadStyleRows()

	builder := reco.NewBuilder(bucketRows, styleRows, s.opts, s.logger)
	dayReco := builder.BuildDay(day)

	if err := s.writeReco(date, dayReco); err != nil {
		metrics.RecordPipelineRun("recommend", "failure")
		return nil, err
	}
	metrics.RecordPipelineRun("recommend", "success")

	for _, race := range dayReco.Races {
		for range race.Win {
			metrics.RecordRecommendation(string(models.MarketWin))
		}
		for range race.Place {
			metrics.RecordRecommendation(string(models.MarketPlace))
		}
		if len(race.QuinellaBox) > 0 {
			metrics.RecordRecommendation(string(models.MarketQuinella))
		}
	}

	return dayReco, nil
}

// loadBucketRows loads the latest pair-bucket artifact, empty on a miss.
func (s *RecoService) loadBucketRows() []models.BucketRow {
	path, err := backtest.LatestReportPath(s.reportDir, backtest.PairsReportPrefix)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warnf("failed to locate pairs artifact: %v", err)
		}
		return nil
	}
	report, err := backtest.LoadBucketReport(path)
	if err != nil {
		s.logger.Warnf("failed to load pairs artifact: %v", err)
		return nil
	}
	return report.Rows
}

// loadStyleRows loads the latest style artifact, empty on a miss.
func (s *RecoService) loadStyleRows() []models.StyleRow {
	path, err := backtest.LatestReportPath(s.reportDir, backtest.StyleReportPrefix)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warnf("failed to locate style artifact: %v", err)
		}
		return nil
	}
	report, err := backtest.LoadStyleReport(path)
	if err != nil {
		s.logger.Warnf("failed to load style artifact: %v", err)
		return nil
	}
	return report.Rows
}

// RecoPath returns where a day's recommendation document lives.
func (s *RecoService) RecoPath(date models.YMD) string {
	return filepath.Join(s.store.Dir(), "reco-"+date.ISO()+".json")
}

func (s *RecoService) writeReco(date models.YMD, dayReco *models.DayReco) error {
	if err := os.MkdirAll(s.store.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(dayReco, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}
	if err := os.WriteFile(s.RecoPath(date), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write recommendations: %w", err)
	}
	return nil
}
