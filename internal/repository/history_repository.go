package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/pace-bias/internal/database"
	"github.com/yourusername/pace-bias/internal/models"
)

// maxHistory is how many prior starts the classifier consumes per horse.
const maxHistory = 3

// PostgresHistoryRepository reads passage history from the jvd_se result
// table.
type PostgresHistoryRepository struct {
	db *database.DB
}

// NewPostgresHistoryRepository creates a new history repository.
func NewPostgresHistoryRepository(db *database.DB) HistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

// PassagesBefore fetches each horse's corner passages from races strictly
// before cutoff. The date filter is applied on the numeric yyyymmdd so the
// race being processed can never leak into its own history.
func (r *PostgresHistoryRepository) PassagesBefore(ctx context.Context, horseIDs []string, cutoff models.YMD) (map[string][]string, error) {
	if len(horseIDs) == 0 {
		return map[string][]string{}, nil
	}

	query := `
		WITH target_ids AS (
			SELECT unnest($1::text[]) AS ketto_toroku_bango
		)
		SELECT se.ketto_toroku_bango,
		       COALESCE(TRIM(se.corner_1), ''),
		       COALESCE(TRIM(se.corner_2), ''),
		       COALESCE(TRIM(se.corner_3), ''),
		       COALESCE(TRIM(se.corner_4), '')
		FROM public.jvd_se se
		JOIN target_ids t USING (ketto_toroku_bango)
		WHERE se.kaisai_nen ~ '^\d{4}$' AND se.kaisai_tsukihi ~ '^\d{4}$'
		  AND (CAST(se.kaisai_nen AS INTEGER) * 10000 + CAST(se.kaisai_tsukihi AS INTEGER)) < $2
		ORDER BY se.ketto_toroku_bango,
		         CAST(se.kaisai_nen AS INTEGER) DESC,
		         CAST(se.kaisai_tsukihi AS INTEGER) DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, horseIDs, int(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to query passage history: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string, len(horseIDs))
	for rows.Next() {
		var id, c1, c2, c3, c4 string
		if err := rows.Scan(&id, &c1, &c2, &c3, &c4); err != nil {
			return nil, fmt.Errorf("failed to scan passage row: %w", err)
		}
		if len(out[id]) >= maxHistory {
			continue
		}
		passage := joinCorners(c1, c2, c3, c4)
		if passage == "" {
			continue
		}
		out[id] = append(out[id], passage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passage history: %w", err)
	}
	return out, nil
}

// joinCorners builds a passage string from raw corner columns, keeping only
// the numeric segments.
func joinCorners(corners ...string) string {
	var segs []string
	for _, c := range corners {
		if c == "" || !allDigits(c) {
			continue
		}
		segs = append(segs, c)
	}
	return strings.Join(segs, "-")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
