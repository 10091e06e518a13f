package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pace-bias/internal/database"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/wager"
)

// payoutSpec describes one market's column family in the jvd_hr payout
// table: haraimodoshi_<prefix>_<n>a holds the selection, _<n>b the amount.
type payoutSpec struct {
	market models.Market
	prefix string
	heads  int
}

var payoutSpecs = []payoutSpec{
	{models.MarketWin, "tansho", 3},
	{models.MarketPlace, "fukusho", 5},
	{models.MarketQuinella, "umaren", 3},
	{models.MarketWide, "wide", 7},
	{models.MarketTrifecta, "sanrentan", 6},
}

// PostgresPayoutRepository reads official payout records from jvd_hr.
type PostgresPayoutRepository struct {
	db *database.DB
}

// NewPostgresPayoutRepository creates a new payout repository.
func NewPostgresPayoutRepository(db *database.DB) PayoutRepository {
	return &PostgresPayoutRepository{db: db}
}

// GetByDateRange returns the payout records for [from, to] keyed by race.
func (r *PostgresPayoutRepository) GetByDateRange(ctx context.Context, from, to models.YMD) (map[models.RaceKey]*models.PayoutRecord, error) {
	if from > to {
		return nil, fmt.Errorf("%w: %s > %s", models.ErrInvalidDateRange, from, to)
	}

	var cols []string
	for _, spec := range payoutSpecs {
		for i := 1; i <= spec.heads; i++ {
			cols = append(cols,
				fmt.Sprintf("COALESCE(TRIM(haraimodoshi_%s_%da), '')", spec.prefix, i),
				fmt.Sprintf("COALESCE(TRIM(haraimodoshi_%s_%db), '')", spec.prefix, i),
			)
		}
	}

	query := fmt.Sprintf(`
		SELECT CAST(kaisai_nen AS INTEGER) * 10000 + CAST(kaisai_tsukihi AS INTEGER) AS ymd,
		       CAST(REGEXP_REPLACE(keibajo_code, '\D', '', 'g') AS INTEGER) AS venue,
		       CAST(REGEXP_REPLACE(race_bango, '\D', '', 'g') AS INTEGER) AS race_no,
		       %s
		FROM public.jvd_hr
		WHERE kaisai_nen ~ '^\d{4}$' AND kaisai_tsukihi ~ '^\d{4}$'
		  AND (CAST(kaisai_nen AS INTEGER) * 10000 + CAST(kaisai_tsukihi AS INTEGER)) BETWEEN $1 AND $2
		  AND keibajo_code ~ '\d' AND race_bango ~ '\d'
	`, strings.Join(cols, ",\n\t\t       "))

	rows, err := r.db.GetPool().Query(ctx, query, int(from), int(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query payouts: %w", err)
	}
	defer rows.Close()

	out := make(map[models.RaceKey]*models.PayoutRecord)
	values := make([]string, len(cols))
	for rows.Next() {
		var ymd, venue, raceNo int
		dest := make([]any, 0, 3+len(values))
		dest = append(dest, &ymd, &venue, &raceNo)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan payout row: %w", err)
		}

		key := models.RaceKey{
			Date:      models.YMD(ymd),
			VenueCode: fmt.Sprintf("%02d", venue),
			RaceNo:    raceNo,
		}
		record := models.NewPayoutRecord(key)
		idx := 0
		for _, spec := range payoutSpecs {
			for i := 0; i < spec.heads; i++ {
				sel, pay := values[idx], values[idx+1]
				idx += 2
				addPayout(record, spec.market, sel, pay)
			}
		}
		out[key] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payouts: %w", err)
	}
	return out, nil
}

func addPayout(record *models.PayoutRecord, market models.Market, sel, pay string) {
	amount := digitsToInt(pay)
	if amount <= 0 {
		return
	}
	value := decimal.NewFromInt(int64(amount))
	switch market {
	case models.MarketWin:
		if num := digitsToInt(sel); num > 0 {
			record.Win[num] = value
		}
	case models.MarketPlace:
		if num := digitsToInt(sel); num > 0 {
			record.Place[num] = value
		}
	case models.MarketQuinella:
		if code, ok := parsePairSelection(sel); ok {
			record.Quinella[code] = value
		}
	case models.MarketWide:
		if code, ok := parsePairSelection(sel); ok {
			record.Wide[code] = value
		}
	case models.MarketTrifecta:
		if code, ok := parseTripleSelection(sel); ok {
			record.Trifecta[code] = value
		}
	}
}

// parsePairSelection canonicalizes a two-horse selection column. The feed
// renders these inconsistently: delimited ("1-2", "01=02"), packed four
// digits ("0102"), or packed three digits ("112" meaning 1 and 12).
func parsePairSelection(raw string) (string, bool) {
	first, second, ok := splitSelection(raw, 2)
	if !ok || first <= 0 || second <= 0 {
		return "", false
	}
	return wager.PairCode(first, second), true
}

// parseTripleSelection canonicalizes an ordered three-horse selection. Only
// the delimited and packed-six-digit renderings occur for trifecta columns.
func parseTripleSelection(raw string) (string, bool) {
	parts := splitDelimited(raw)
	if len(parts) == 3 && parts[0] > 0 && parts[1] > 0 && parts[2] > 0 {
		return wager.TripleCode(parts[0], parts[1], parts[2]), true
	}
	digits := digitsOnly(raw)
	if len(digits) == 6 {
		i, j, k := digitsToInt(digits[0:2]), digitsToInt(digits[2:4]), digitsToInt(digits[4:6])
		if i > 0 && j > 0 && k > 0 {
			return wager.TripleCode(i, j, k), true
		}
	}
	return "", false
}

func splitSelection(raw string, want int) (int, int, bool) {
	if parts := splitDelimited(raw); len(parts) == want {
		return parts[0], parts[1], true
	}
	digits := digitsOnly(raw)
	switch len(digits) {
	case 4:
		return digitsToInt(digits[0:2]), digitsToInt(digits[2:4]), true
	case 3:
		return digitsToInt(digits[0:1]), digitsToInt(digits[1:3]), true
	}
	return 0, 0, false
}

// splitDelimited extracts the numeric runs of a delimited selection string.
func splitDelimited(raw string) []int {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if len(fields) < 2 {
		return nil
	}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		out = append(out, digitsToInt(f))
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

func digitsToInt(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		seen = true
		n = n*10 + int(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}
