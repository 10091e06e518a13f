package service

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pace-bias/internal/datasource"
	"github.com/yourusername/pace-bias/internal/models"
)

type fakeHistory struct {
	passages map[string][]string
	cutoffs  []models.YMD
	ids      [][]string
}

func (f *fakeHistory) PassagesBefore(ctx context.Context, horseIDs []string, cutoff models.YMD) (map[string][]string, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	f.ids = append(f.ids, horseIDs)
	out := make(map[string][]string)
	for _, id := range horseIDs {
		if p, ok := f.passages[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleDay() *models.RaceDay {
	return &models.RaceDay{
		Date: "2025-01-13",
		Meetings: []models.Meeting{
			{
				Track:   "中山",
				Kaiji:   1,
				Nichiji: 5,
				Races: []models.RaceCard{
					{
						No:        11,
						Name:      "フェアリーS",
						DistanceM: 1600,
						Ground:    "芝",
						Horses: []models.CardHorse{
							{Num: 1, Draw: 1, Name: "プレッサー", Ketto: "2019104567"},
							{Num: 2, Draw: 2, Name: "シンバ", Ketto: "2019104568"},
						},
					},
					{
						No:        8,
						Name:      "中山大障害",
						DistanceM: 4100,
						Ground:    "障",
						Horses: []models.CardHorse{
							{Num: 1, Draw: 1, Name: "ジャンパー", Ketto: "2017102001"},
						},
					},
				},
			},
			{
				Track: "新潟",
				Races: []models.RaceCard{
					{
						No:        5,
						Name:      "直線競馬",
						DistanceM: 1000,
						Ground:    "芝",
						Horses: []models.CardHorse{
							{Num: 1, Draw: 1, Name: "ストレート", Ketto: "2020105001"},
						},
					},
				},
			},
		},
	}
}

func newCardService(t *testing.T, history *fakeHistory) (*CardService, *datasource.LocalDirSource) {
	t.Helper()
	store := datasource.NewLocalDirSource(t.TempDir())
	return NewCardService(store, store, history, testLogger()), store
}

func TestAugmentDaySetsPaceFields(t *testing.T) {
	history := &fakeHistory{passages: map[string][]string{
		"2019104567": {"3-3-2-2", "4-4-4-4"},
	}}
	svc, store := newCardService(t, history)
	require.NoError(t, store.StoreDay(sampleDay()))

	day, err := svc.AugmentDay(context.Background(), 20250113)
	require.NoError(t, err)

	race := &day.Meetings[0].Races[0]
	require.NotNil(t, race.PaceScore)
	// One presser, no front runners, few pressers: 1.0 - 2.5 - 1.0
	assert.InDelta(t, -2.5, *race.PaceScore, 1e-9)
	assert.Equal(t, "★", race.PaceMark)
	assert.Equal(t, []string{"B"}, race.Horses[0].PaceType)
	assert.Empty(t, race.Horses[1].PaceType)

	// Cutoff is the card date itself.
	require.Len(t, history.cutoffs, 1)
	assert.Equal(t, models.YMD(20250113), history.cutoffs[0])
}

func TestAugmentDaySkipsExcludedRaces(t *testing.T) {
	history := &fakeHistory{passages: map[string][]string{}}
	svc, store := newCardService(t, history)
	require.NoError(t, store.StoreDay(sampleDay()))

	day, err := svc.AugmentDay(context.Background(), 20250113)
	require.NoError(t, err)

	obstacle := &day.Meetings[0].Races[1]
	assert.Nil(t, obstacle.PaceScore)
	assert.Empty(t, obstacle.PaceMark)

	straight := &day.Meetings[1].Races[0]
	assert.Nil(t, straight.PaceScore)

	// Excluded horses never reach the history lookup.
	require.Len(t, history.ids, 1)
	assert.ElementsMatch(t, []string{"2019104567", "2019104568"}, history.ids[0])
}

func TestAugmentDayPersistsDocument(t *testing.T) {
	history := &fakeHistory{passages: map[string][]string{
		"2019104567": {"3-3-2-2", "4-4-4-4"},
	}}
	svc, store := newCardService(t, history)
	require.NoError(t, store.StoreDay(sampleDay()))

	_, err := svc.AugmentDay(context.Background(), 20250113)
	require.NoError(t, err)

	reloaded, err := store.FetchDay(context.Background(), 20250113)
	require.NoError(t, err)
	assert.Equal(t, "★", reloaded.Meetings[0].Races[0].PaceMark)
}

func TestBiasReportListsNotableRaces(t *testing.T) {
	day := sampleDay()
	score := 1.5
	race := &day.Meetings[0].Races[0]
	race.PaceScore = &score
	race.PaceMark = "★"
	race.Horses[0].PaceType = []string{"B"}
	race.Horses[1].PaceType = []string{"A"}

	report := BiasReport(day)
	assert.Contains(t, report, "2025-01-13 展開バイアス")
	assert.Contains(t, report, "中山 11R フェアリーS (芝1600m) 展開スコア 1.5")
	assert.Contains(t, report, "A: 2 シンバ")
	assert.Contains(t, report, "B: 1 プレッサー")
	assert.NotContains(t, report, "中山大障害")
}

func TestBiasReportWithoutNotableRaces(t *testing.T) {
	report := BiasReport(sampleDay())
	assert.Contains(t, report, "注目レースはありません")
}

func TestWriteBiasReport(t *testing.T) {
	history := &fakeHistory{}
	svc, _ := newCardService(t, history)

	path, err := svc.WriteBiasReport(sampleDay())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "展開バイアス")
}
