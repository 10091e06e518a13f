package service

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pace-bias/internal/backtest"
	"github.com/yourusername/pace-bias/internal/datasource"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/reco"
)

func newRecoService(t *testing.T) (*RecoService, *datasource.LocalDirSource, string) {
	t.Helper()
	store := datasource.NewLocalDirSource(t.TempDir())
	reportDir := t.TempDir()
	svc := NewRecoService(store, reportDir, reco.DefaultOptions(), testLogger())
	return svc, store, reportDir
}

func augmentedDay() *models.RaceDay {
	day := sampleDay()
	score := 1.5
	race := &day.Meetings[0].Races[0]
	race.PaceScore = &score
	race.PaceMark = "★"
	odds1, pop1 := 5.0, 2
	odds2, pop2 := 3.0, 1
	race.Horses[0].PaceType = []string{"B"}
	race.Horses[0].Odds = &odds1
	race.Horses[0].Popularity = &pop1
	race.Horses[1].PaceType = []string{"B", "C"}
	race.Horses[1].Odds = &odds2
	race.Horses[1].Popularity = &pop2
	return day
}

func TestBuildDayWithoutArtifactsStaysQuiet(t *testing.T) {
	svc, store, _ := newRecoService(t)
	require.NoError(t, store.StoreDay(augmentedDay()))

	dayReco, err := svc.BuildDay(context.Background(), 20250113)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-13", dayReco.Date)

	// Every race with entries appears; no market gate opens without
	// backtest evidence.
	require.Len(t, dayReco.Races, 3)
	for _, race := range dayReco.Races {
		assert.Empty(t, race.Win)
		assert.Empty(t, race.Place)
		assert.Empty(t, race.QuinellaBox)
	}
}

func TestBuildDayWritesDocument(t *testing.T) {
	svc, store, _ := newRecoService(t)
	require.NoError(t, store.StoreDay(augmentedDay()))

	_, err := svc.BuildDay(context.Background(), 20250113)
	require.NoError(t, err)

	data, err := os.ReadFile(svc.RecoPath(20250113))
	require.NoError(t, err)

	var doc models.DayReco
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2025-01-13", doc.Date)
	assert.NotEmpty(t, doc.Races)
}

func TestBuildDayUsesLatestArtifacts(t *testing.T) {
	svc, store, reportDir := newRecoService(t)
	require.NoError(t, store.StoreDay(augmentedDay()))

	bias := true
	pairsReport := backtest.BucketReport{
		From: "2022-01-13",
		To:   "2025-01-12",
		Rows: []models.BucketRow{{
			Market:   models.MarketQuinella,
			Pattern:  "BB",
			BN:       2,
			ROI:      1.42,
			Hit:      12,
			Races:    80,
			Venue:    "中山",
			Surface:  models.SurfaceTurf,
			BiasFlag: &bias,
		}},
	}
	require.NoError(t, backtest.WriteBucketReport(
		reportDir+"/"+backtest.ReportName(backtest.PairsReportPrefix, 20250112), pairsReport))

	styleReport := backtest.StyleReport{
		From: "2022-01-13",
		To:   "2025-01-12",
		By:   "venue_surface_style",
		Rows: []models.StyleRow{
			{Venue: "中山", Surface: models.SurfaceTurf, Style: "A", Starters: 900, WinROI: 1.2, PlaceROI: 1.3},
			{Venue: "中山", Surface: models.SurfaceTurf, Style: "B", Starters: 900, WinROI: 1.2, PlaceROI: 1.3},
		},
	}
	require.NoError(t, backtest.WriteStyleReport(
		reportDir+"/"+backtest.ReportName(backtest.StyleReportPrefix, 20250112), styleReport))

	dayReco, err := svc.BuildDay(context.Background(), 20250113)
	require.NoError(t, err)

	var target *models.Recommendation
	for i := range dayReco.Races {
		if dayReco.Races[i].Track == "中山" && dayReco.Races[i].No == 11 {
			target = &dayReco.Races[i]
		}
	}
	require.NotNil(t, target)
	assert.NotEmpty(t, target.QuinellaBox)
	assert.NotEmpty(t, target.Notes)
}
