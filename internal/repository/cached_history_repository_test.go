package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pace-bias/internal/models"
)

type recordingHistory struct {
	data  map[models.YMD]map[string][]string
	calls [][]string
}

func (r *recordingHistory) PassagesBefore(_ context.Context, ids []string, cutoff models.YMD) (map[string][]string, error) {
	r.calls = append(r.calls, append([]string(nil), ids...))
	out := make(map[string][]string)
	for _, id := range ids {
		if p, ok := r.data[cutoff][id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestCachedHistoryServesRepeatLookups(t *testing.T) {
	cutoff, _ := models.ParseYMD("20250104")
	inner := &recordingHistory{data: map[models.YMD]map[string][]string{
		cutoff: {"h1": {"1-1"}, "h2": {"3-3", "4-4"}},
	}}
	repo := NewCachedHistoryRepository(inner, time.Minute)

	first, err := repo.PassagesBefore(context.Background(), []string{"h1", "h2"}, cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1"}, first["h1"])
	require.Len(t, inner.calls, 1)

	second, err := repo.PassagesBefore(context.Background(), []string{"h1", "h2"}, cutoff)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, inner.calls, 1, "cached lookups must not reach the database")
}

func TestCachedHistoryFetchesOnlyMissing(t *testing.T) {
	cutoff, _ := models.ParseYMD("20250104")
	inner := &recordingHistory{data: map[models.YMD]map[string][]string{
		cutoff: {"h1": {"1-1"}, "h2": {"2-2"}},
	}}
	repo := NewCachedHistoryRepository(inner, time.Minute)

	_, err := repo.PassagesBefore(context.Background(), []string{"h1"}, cutoff)
	require.NoError(t, err)

	out, err := repo.PassagesBefore(context.Background(), []string{"h1", "h2"}, cutoff)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	require.Len(t, inner.calls, 2)
	assert.Equal(t, []string{"h2"}, inner.calls[1])
}

func TestCachedHistoryCachesEmptyResults(t *testing.T) {
	cutoff, _ := models.ParseYMD("20250104")
	inner := &recordingHistory{data: map[models.YMD]map[string][]string{}}
	repo := NewCachedHistoryRepository(inner, time.Minute)

	for i := 0; i < 3; i++ {
		out, err := repo.PassagesBefore(context.Background(), []string{"debutant"}, cutoff)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
	assert.Len(t, inner.calls, 1, "a horse with no history costs one query")
}

func TestCachedHistoryIsolatesCutoffs(t *testing.T) {
	early, _ := models.ParseYMD("20240601")
	late, _ := models.ParseYMD("20250104")
	inner := &recordingHistory{data: map[models.YMD]map[string][]string{
		early: {"h1": {"5-5"}},
		late:  {"h1": {"1-1", "5-5"}},
	}}
	repo := NewCachedHistoryRepository(inner, time.Minute)

	atEarly, err := repo.PassagesBefore(context.Background(), []string{"h1"}, early)
	require.NoError(t, err)
	assert.Equal(t, []string{"5-5"}, atEarly["h1"])

	// The same horse at a later cutoff must miss the cache and see the
	// longer history, never the earlier snapshot.
	atLate, err := repo.PassagesBefore(context.Background(), []string{"h1"}, late)
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1", "5-5"}, atLate["h1"])
	assert.Len(t, inner.calls, 2)
}
