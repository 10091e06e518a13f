// Package repository provides data access over the loaded JV-Data tables.
package repository

import (
	"fmt"
	"time"

	"github.com/yourusername/pace-bias/internal/database"
)

// Repositories holds all repository implementations.
type Repositories struct {
	History HistoryRepository
	Result  ResultRepository
	Payout  PayoutRepository
}

// NewRepositories creates all repository implementations over one database
// pool. The history repository is wrapped with the memoizing cache; a full
// backtest touches the same horses across many races.
func NewRepositories(db *database.DB, historyTTL time.Duration) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &Repositories{
		History: NewCachedHistoryRepository(NewPostgresHistoryRepository(db), historyTTL),
		Result:  NewPostgresResultRepository(db),
		Payout:  NewPostgresPayoutRepository(db),
	}, nil
}
