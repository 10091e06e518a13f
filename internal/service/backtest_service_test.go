package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pace-bias/internal/backtest"
	"github.com/yourusername/pace-bias/internal/config"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/repository"
)

type fakeResults struct {
	rows []models.ResultRow
}

func (f *fakeResults) GetByDateRange(ctx context.Context, from, to models.YMD) ([]models.ResultRow, error) {
	return f.rows, nil
}

type fakePayouts struct {
	payouts map[models.RaceKey]*models.PayoutRecord
}

func (f *fakePayouts) GetByDateRange(ctx context.Context, from, to models.YMD) (map[models.RaceKey]*models.PayoutRecord, error) {
	return f.payouts, nil
}

func backtestConfig(t *testing.T, markets []string) *config.Config {
	t.Helper()
	return &config.Config{
		Backtest: config.BacktestConfig{
			AnchorDate: "2025-01-13",
			Years:      3,
			UnitStake:  100,
			Markets:    markets,
			OutputPath: t.TempDir(),
		},
	}
}

func turfRace(date models.YMD, raceNo int, passages map[string][]string) []models.ResultRow {
	key := models.RaceKey{Date: date, VenueCode: "06", RaceNo: raceNo}
	var rows []models.ResultRow
	num := 1
	for id := range passages {
		rows = append(rows, models.ResultRow{
			Key:       key,
			HorseID:   id,
			Number:    num,
			Draw:      num,
			Finish:    num,
			TrackCode: "11",
			Passage:   "3-3-2-2",
		})
		num++
	}
	return rows
}

func TestRunWritesAllArtifacts(t *testing.T) {
	cfg := backtestConfig(t, []string{"quinella", "wide", "trifecta", "win", "place"})

	passages := map[string][]string{
		"h1": {"1-9-9-9", "2-1-8-8"},
		"h2": {"3-3-2-2", "4-4-4-4"},
		"h3": {"3-3-2-2"},
	}
	repos := &repository.Repositories{
		History: &fakeHistory{passages: passages},
		Result:  &fakeResults{rows: turfRace(20240113, 11, passages)},
		Payout:  &fakePayouts{},
	}

	svc := NewBacktestService(cfg, repos, testLogger())
	require.NoError(t, svc.Run(context.Background(), 20260901))

	pairs, err := backtest.LoadBucketReport(
		filepath.Join(cfg.Backtest.OutputPath, backtest.ReportName(backtest.PairsReportPrefix, 20250113)))
	require.NoError(t, err)
	assert.Equal(t, "2022-01-13", pairs.From)
	assert.Equal(t, "2025-01-13", pairs.To)
	assert.NotEmpty(t, pairs.Rows)

	_, err = backtest.LoadBucketReport(
		filepath.Join(cfg.Backtest.OutputPath, backtest.ReportName(backtest.TrifectaReportPrefix, 20250113)))
	require.NoError(t, err)

	style, err := backtest.LoadStyleReport(
		filepath.Join(cfg.Backtest.OutputPath, backtest.ReportName(backtest.StyleReportPrefix, 20250113)))
	require.NoError(t, err)
	assert.Equal(t, "venue_surface_style", style.By)
	assert.NotEmpty(t, style.Rows)
}

func TestRunHonorsConfiguredMarkets(t *testing.T) {
	cfg := backtestConfig(t, []string{"win", "place"})

	repos := &repository.Repositories{
		History: &fakeHistory{},
		Result:  &fakeResults{},
		Payout:  &fakePayouts{},
	}

	svc := NewBacktestService(cfg, repos, testLogger())
	require.NoError(t, svc.Run(context.Background(), 20260901))

	_, err := backtest.LatestReportPath(cfg.Backtest.OutputPath, backtest.PairsReportPrefix)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = backtest.LatestReportPath(cfg.Backtest.OutputPath, backtest.StyleReportPrefix)
	assert.NoError(t, err)
}
