package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/pace-bias/internal/database"
	"github.com/yourusername/pace-bias/internal/models"
)

// PostgresResultRepository reads confirmed race results from the jvd_se and
// jvd_ra tables.
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository.
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// GetByDateRange returns result rows for [from, to] inclusive. Only
// confirmed data (data_kubun 6 or 7) participates, and the sort order makes
// every race a contiguous block ready for group-by folding.
func (r *PostgresResultRepository) GetByDateRange(ctx context.Context, from, to models.YMD) ([]models.ResultRow, error) {
	if from > to {
		return nil, fmt.Errorf("%w: %s > %s", models.ErrInvalidDateRange, from, to)
	}

	query := `
		SELECT CAST(se.kaisai_nen AS INTEGER) * 10000 + CAST(se.kaisai_tsukihi AS INTEGER) AS ymd,
		       CAST(REGEXP_REPLACE(ra.keibajo_code, '\D', '', 'g') AS INTEGER) AS venue,
		       CAST(REGEXP_REPLACE(ra.race_bango, '\D', '', 'g') AS INTEGER) AS race_no,
		       TRIM(se.ketto_toroku_bango) AS horse_id,
		       CAST(REGEXP_REPLACE(se.umaban::text, '\D', '', 'g') AS INTEGER) AS number,
		       COALESCE(NULLIF(REGEXP_REPLACE(se.wakuban::text, '\D', '', 'g'), ''), '0')::INTEGER AS draw,
		       COALESCE(NULLIF(REGEXP_REPLACE(se.kakutei_chakujun::text, '\D', '', 'g'), ''), '0')::INTEGER AS finish,
		       TRIM(ra.track_code) AS track_code,
		       COALESCE(TRIM(se.corner_1), ''),
		       COALESCE(TRIM(se.corner_2), ''),
		       COALESCE(TRIM(se.corner_3), ''),
		       COALESCE(TRIM(se.corner_4), '')
		FROM public.jvd_se se
		JOIN public.jvd_ra ra
		  ON TRIM(se.kaisai_nen) = TRIM(ra.kaisai_nen)
		 AND TRIM(se.kaisai_tsukihi) = TRIM(ra.kaisai_tsukihi)
		 AND TRIM(se.keibajo_code) = TRIM(ra.keibajo_code)
		 AND TRIM(se.race_bango) = TRIM(ra.race_bango)
		WHERE se.kaisai_nen ~ '^\d{4}$' AND se.kaisai_tsukihi ~ '^\d{4}$'
		  AND (CAST(se.kaisai_nen AS INTEGER) * 10000 + CAST(se.kaisai_tsukihi AS INTEGER)) BETWEEN $1 AND $2
		  AND COALESCE(NULLIF(TRIM(se.data_kubun), ''), '') IN ('6', '7')
		  AND ra.keibajo_code ~ '^\d+$' AND ra.race_bango ~ '^\d+$'
		  AND se.umaban::text ~ '\d'
		ORDER BY 1, 2, 3, 5
	`

	rows, err := r.db.GetPool().Query(ctx, query, int(from), int(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var out []models.ResultRow
	for rows.Next() {
		var (
			ymd, venue, raceNo, number, draw, finish int
			horseID, trackCode, c1, c2, c3, c4       string
		)
		if err := rows.Scan(&ymd, &venue, &raceNo, &horseID, &number, &draw, &finish,
			&trackCode, &c1, &c2, &c3, &c4); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out = append(out, models.ResultRow{
			Key: models.RaceKey{
				Date:      models.YMD(ymd),
				VenueCode: fmt.Sprintf("%02d", venue),
				RaceNo:    raceNo,
			},
			HorseID:   horseID,
			Number:    number,
			Draw:      draw,
			Finish:    finish,
			TrackCode: trackCode,
			Passage:   joinCorners(c1, c2, c3, c4),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return out, nil
}
