package database

import (
	"context"
	"fmt"

	"github.com/yourusername/pace-bias/internal/config"
)

// requiredTables are the loaded JV-Data tables every pipeline reads from.
var requiredTables = []string{"jvd_ra", "jvd_se", "jvd_hr"}

// Initialize creates a database connection pool and verifies the JV-Data
// tables are present.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, table := range requiredTables {
		var exists bool
		err := db.pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
			table,
		).Scan(&exists)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			db.Close()
			return nil, fmt.Errorf("table %s not found; load the JV-Data dump before running", table)
		}
	}

	return db, nil
}
