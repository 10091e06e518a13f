package backtest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pace-bias/internal/models"
)

func TestDayStyle(t *testing.T) {
	tests := []struct {
		passage string
		want    string
	}{
		{"1-1-1-1", "A"},
		{"4-4", "A"},
		{"9-9-8-7", "B"},
		{"5-5", "B"},
		{"2-2-6-1", "C"},
		{"8-4", "C"},
		{"3", ""},     // single corner
		{"", ""},      // no passage recorded
		{"0-0-0", ""}, // unmeasured corners drop out
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayStyle(tt.passage), "passage %q", tt.passage)
	}
}

func TestRunStyleAccumulates(t *testing.T) {
	date, _ := models.ParseYMD("20250111")
	key := models.RaceKey{Date: date, VenueCode: "06", RaceNo: 10}
	rows := []models.ResultRow{
		{Key: key, HorseID: "h1", Number: 1, Finish: 1, TrackCode: "11", Passage: "1-1-1"},
		{Key: key, HorseID: "h2", Number: 2, Finish: 3, TrackCode: "11", Passage: "2-2-4"},
		{Key: key, HorseID: "h3", Number: 3, Finish: 8, TrackCode: "11", Passage: "9-9-9"},
		{Key: key, HorseID: "h4", Number: 4, Finish: 2, TrackCode: "11", Passage: "7"},
	}

	payout := models.NewPayoutRecord(key)
	payout.Win[1] = decimal.NewFromInt(340)
	payout.Place[1] = decimal.NewFromInt(140)
	payout.Place[2] = decimal.NewFromInt(220)

	table := RunStyle(rows, map[models.RaceKey]*models.PayoutRecord{key: payout}, decimal.NewFromInt(100))
	require.Equal(t, 2, table.Len()) // h4 has a single corner, unclassified

	front := table.Bucket(models.StyleKey{VenueCode: "06", Surface: models.SurfaceTurf, Style: "A"})
	require.NotNil(t, front)
	assert.Equal(t, 2, front.Starters)
	assert.Equal(t, 1, front.Wins)
	assert.Equal(t, 2, front.Places)
	assert.True(t, front.WinStake.Equal(decimal.NewFromInt(200)))
	assert.True(t, front.WinReturn.Equal(decimal.NewFromInt(340)))
	assert.True(t, front.PlaceReturn.Equal(decimal.NewFromInt(360)))
	assert.InDelta(t, 1.7, front.WinROI(), 1e-9)
	assert.InDelta(t, 1.8, front.PlaceROI(), 1e-9)

	back := table.Bucket(models.StyleKey{VenueCode: "06", Surface: models.SurfaceTurf, Style: "B"})
	require.NotNil(t, back)
	assert.Equal(t, 1, back.Starters)
	assert.Equal(t, 0, back.Wins)
	assert.True(t, back.WinReturn.IsZero())
}

func TestRunStyleSkipsStakeWithoutPayout(t *testing.T) {
	date, _ := models.ParseYMD("20250111")
	key := models.RaceKey{Date: date, VenueCode: "09", RaceNo: 1}
	rows := []models.ResultRow{
		{Key: key, HorseID: "h1", Number: 1, Finish: 1, TrackCode: "24", Passage: "1-1"},
	}

	table := RunStyle(rows, nil, decimal.NewFromInt(100))
	b := table.Bucket(models.StyleKey{VenueCode: "09", Surface: models.SurfaceDirt, Style: "A"})
	require.NotNil(t, b)
	assert.Equal(t, 1, b.Starters)
	assert.Equal(t, 1, b.Wins)
	assert.True(t, b.WinStake.IsZero())
	assert.Equal(t, float64(0), b.WinROI())
}

func TestRunStyleSkipsObstacle(t *testing.T) {
	date, _ := models.ParseYMD("20250111")
	key := models.RaceKey{Date: date, VenueCode: "06", RaceNo: 1}
	rows := []models.ResultRow{
		{Key: key, HorseID: "h1", Number: 1, Finish: 1, TrackCode: "54", Passage: "1-1"},
	}
	assert.Zero(t, RunStyle(rows, nil, decimal.NewFromInt(100)).Len())
}

func TestStyleRowsOrderedAndNamed(t *testing.T) {
	date, _ := models.ParseYMD("20250111")
	mk := func(venue, track, passage string) models.ResultRow {
		return models.ResultRow{
			Key:     models.RaceKey{Date: date, VenueCode: venue, RaceNo: 1},
			HorseID: "h", Number: 1, Finish: 4, TrackCode: track, Passage: passage,
		}
	}
	rows := []models.ResultRow{
		mk("06", "11", "9-9"),
		mk("05", "24", "1-1"),
		mk("05", "11", "1-1"),
	}

	out := RunStyle(rows, nil, decimal.NewFromInt(100)).Rows()
	require.Len(t, out, 3)
	assert.Equal(t, "東京", out[0].Venue)
	assert.Equal(t, models.SurfaceDirt, out[0].Surface) // "dirt" < "turf"
	assert.Equal(t, "東京", out[1].Venue)
	assert.Equal(t, models.SurfaceTurf, out[1].Surface)
	assert.Equal(t, "中山", out[2].Venue)
	assert.Equal(t, "B", out[2].Style)
}
