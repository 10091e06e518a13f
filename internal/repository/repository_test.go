package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pace-bias/internal/database"
	"github.com/yourusername/pace-bias/internal/models"
)

func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil, time.Minute)
	assert.Error(t, err)
	assert.Nil(t, repos)
}

// Integration tests below run against a loaded JV-Data database and skip
// when none is configured.

func TestPassagesBeforeIntegration(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresHistoryRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	passages, err := repo.PassagesBefore(ctx, []string{"0000000000"}, models.YMD(20250113))
	require.NoError(t, err)
	assert.Empty(t, passages["0000000000"])
}

func TestResultsByDateRangeIntegration(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresResultRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := repo.GetByDateRange(ctx, models.YMD(20250111), models.YMD(20250113))
	require.NoError(t, err)
	for _, row := range rows {
		assert.GreaterOrEqual(t, int(row.Key.Date), 20250111)
		assert.LessOrEqual(t, int(row.Key.Date), 20250113)
	}
}
