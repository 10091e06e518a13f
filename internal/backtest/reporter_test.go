package backtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pace-bias/internal/models"
)

func TestBucketReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	anchor, _ := models.ParseISODate("2025-01-13")
	path := filepath.Join(dir, ReportName(PairsReportPrefix, anchor))

	report := BucketReport{
		From: "2015-01-13",
		To:   "2025-01-13",
		Rows: []models.BucketRow{
			{
				Market: models.MarketQuinella, Pattern: "AB", AN: 1, BN: 2,
				Points: 2, Stake: decimal.NewFromInt(200), Return: decimal.NewFromInt(1250),
				ROI: 6.25, Hit: 1, Races: 1, Venue: "06", Surface: models.SurfaceTurf,
			},
		},
	}
	require.NoError(t, WriteBucketReport(path, report))

	loaded, err := LoadBucketReport(path)
	require.NoError(t, err)
	assert.Equal(t, report.From, loaded.From)
	require.Len(t, loaded.Rows, 1)
	assert.Equal(t, models.MarketQuinella, loaded.Rows[0].Market)
	assert.True(t, loaded.Rows[0].Stake.Equal(decimal.NewFromInt(200)))
}

func TestWriteReportCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "nested", "pairs-backtest-2025-01-13.json")
	require.NoError(t, WriteBucketReport(path, BucketReport{From: "a", To: "b"}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLatestReportPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"pairs-backtest-2024-12-01.json",
		"pairs-backtest-2025-01-13.json",
		"pairs-backtest-2025-01-06.json",
		"trifecta-backtest-2025-02-01.json",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	path, err := LatestReportPath(dir, PairsReportPrefix)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pairs-backtest-2025-01-13.json"), path)

	_, err = LatestReportPath(dir, StyleReportPrefix)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestConsoleReportListsTopRows(t *testing.T) {
	bias := true
	report := BucketReport{
		From: "2015-01-13",
		To:   "2025-01-13",
		Rows: []models.BucketRow{
			{
				Market: models.MarketQuinella, Pattern: "AB", AN: 1, BN: 2,
				ROI: 1.42, Hit: 12, Races: 80,
				Venue: "06", Surface: models.SurfaceTurf, BiasFlag: &bias,
			},
			{
				Market: models.MarketTrifecta, Pattern: "A-BC-ABC", AN: 1, BN: 2, CN: 1, Cap: 50,
				ROI: 0.91, Hit: 3, Races: 40,
			},
		},
	}

	out := GenerateConsoleReport(report, 10)
	assert.Contains(t, out, "2015-01-13 .. 2025-01-13")
	assert.Contains(t, out, "quinella")
	assert.Contains(t, out, "中山")
	assert.Contains(t, out, "cap50")
	assert.Contains(t, out, "roi=1.420")
}
