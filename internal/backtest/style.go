package backtest

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/pace"
)

// DayStyle classifies how a runner raced on the day from its own corner
// positions: forward all the way (every corner 4th or better) is "A", held
// back all the way (every corner 5th or worse) is "B", anything mixed is
// "C". Fewer than two recorded corners is unclassifiable.
func DayStyle(passage string) string {
	segs := pace.ParsePassage(passage)
	if len(segs) < 2 {
		return ""
	}
	forward, back := true, true
	for _, pos := range segs {
		if pos > 4 {
			forward = false
		}
		if pos < 5 {
			back = false
		}
	}
	switch {
	case forward:
		return "A"
	case back:
		return "B"
	}
	return "C"
}

// StyleTable accumulates per-runner win/place outcomes keyed by venue,
// surface and day style. Unlike the combination buckets, stake is only
// counted when the race's payout row exists, so ROI compares like with like.
type StyleTable struct {
	unitStake decimal.Decimal
	buckets   map[models.StyleKey]*models.StyleBucket
}

// RunStyle folds every runner in rows into a style table. Obstacle races and
// rows without a usable surface or day style are skipped.
func RunStyle(rows []models.ResultRow, payouts map[models.RaceKey]*models.PayoutRecord, unitStake decimal.Decimal) *StyleTable {
	t := &StyleTable{
		unitStake: unitStake,
		buckets:   make(map[models.StyleKey]*models.StyleBucket),
	}
	for _, row := range rows {
		surface := models.SurfaceFromTrackCode(row.TrackCode)
		if surface == models.SurfaceObstacle || surface == models.SurfaceUnknown {
			continue
		}
		style := DayStyle(row.Passage)
		if style == "" {
			continue
		}
		key := models.StyleKey{VenueCode: row.Key.VenueCode, Surface: surface, Style: style}
		b, ok := t.buckets[key]
		if !ok {
			b = &models.StyleBucket{}
			t.buckets[key] = b
		}

		b.Starters++
		if row.Finish == 1 {
			b.Wins++
		}
		if row.Finish >= 1 && row.Finish <= 3 {
			b.Places++
		}

		payout := payouts[row.Key]
		if payout == nil {
			continue
		}
		b.WinStake = b.WinStake.Add(unitStake)
		b.PlaceStake = b.PlaceStake.Add(unitStake)
		if pay, ok := payout.Win[row.Number]; ok {
			b.WinReturn = b.WinReturn.Add(pay)
		}
		if pay, ok := payout.Place[row.Number]; ok {
			b.PlaceReturn = b.PlaceReturn.Add(pay)
		}
	}
	return t
}

// Bucket returns the bucket for a key, or nil when it never accumulated.
func (t *StyleTable) Bucket(key models.StyleKey) *models.StyleBucket {
	return t.buckets[key]
}

// Len returns the number of populated style buckets.
func (t *StyleTable) Len() int { return len(t.buckets) }

// Rows flattens the table sorted by venue code, surface, then style so the
// exported artifact is stable across runs.
func (t *StyleTable) Rows() []models.StyleRow {
	keys := make([]models.StyleKey, 0, len(t.buckets))
	for key := range t.buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.VenueCode != b.VenueCode {
			return a.VenueCode < b.VenueCode
		}
		if a.Surface != b.Surface {
			return a.Surface < b.Surface
		}
		return a.Style < b.Style
	})

	rows := make([]models.StyleRow, 0, len(keys))
	for _, key := range keys {
		b := t.buckets[key]
		rows = append(rows, models.StyleRow{
			Venue:     models.VenueName(key.VenueCode),
			Surface:   key.Surface,
			Style:     key.Style,
			Starters:  b.Starters,
			WinRate:   rate(b.Wins, b.Starters),
			PlaceRate: rate(b.Places, b.Starters),
			WinROI:    b.WinROI(),
			PlaceROI:  b.PlaceROI(),
		})
	}
	return rows
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
