package backtest

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pace-bias/internal/models"
)

// BucketTable accumulates backtest statistics per stratification key. All
// mutation goes through add* methods; Rows flattens and orders the table for
// export, so two runs over the same input produce byte-identical artifacts.
type BucketTable struct {
	unitStake decimal.Decimal
	buckets   map[models.BucketKey]*models.Bucket
}

// NewBucketTable returns an empty table accumulating at the given unit stake.
func NewBucketTable(unitStake decimal.Decimal) *BucketTable {
	return &BucketTable{
		unitStake: unitStake,
		buckets:   make(map[models.BucketKey]*models.Bucket),
	}
}

// Len returns the number of populated buckets.
func (t *BucketTable) Len() int { return len(t.buckets) }

// Bucket returns the bucket for a key, or nil when it never accumulated.
func (t *BucketTable) Bucket(key models.BucketKey) *models.Bucket {
	return t.buckets[key]
}

func (t *BucketTable) bucket(key models.BucketKey) *models.Bucket {
	b, ok := t.buckets[key]
	if !ok {
		b = &models.Bucket{}
		t.buckets[key] = b
	}
	return b
}

// addStake records one race's outlay for a key: points tickets at the unit
// stake, and one race counted. Called whether or not a payout row exists.
func (t *BucketTable) addStake(key models.BucketKey, points int) {
	b := t.bucket(key)
	b.Stake = b.Stake.Add(t.unitStake.Mul(decimal.NewFromInt(int64(points))))
	b.Races++
}

// addReturn records a settled return for a key. hit marks that at least one
// combination matched; a race contributes at most one hit per bucket.
func (t *BucketTable) addReturn(key models.BucketKey, amount decimal.Decimal, hit bool) {
	b := t.bucket(key)
	b.Return = b.Return.Add(amount)
	if hit {
		b.Hit++
	}
}

// Rows flattens the table ordered by ROI descending, then total return
// descending, then the stratification key itself so ties stay stable.
func (t *BucketTable) Rows() []models.BucketRow {
	keys := make([]models.BucketKey, 0, len(t.buckets))
	for key := range t.buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		bi, bj := t.buckets[keys[i]], t.buckets[keys[j]]
		ri, rj := bi.ROI(), bj.ROI()
		if ri != rj {
			return ri > rj
		}
		if cmp := bi.Return.Cmp(bj.Return); cmp != 0 {
			return cmp > 0
		}
		return lessKey(keys[i], keys[j])
	})

	rows := make([]models.BucketRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, t.row(key))
	}
	return rows
}

func (t *BucketTable) row(key models.BucketKey) models.BucketRow {
	b := t.buckets[key]
	row := models.BucketRow{
		Market:  key.Market,
		Pattern: key.Pattern,
		AN:      key.AN,
		BN:      key.BN,
		CN:      key.CN,
		Cap:     key.Cap,
		Points:  b.Stake.Div(t.unitStake).IntPart(),
		Stake:   b.Stake,
		Return:  b.Return,
		ROI:     b.ROI(),
		Hit:     b.Hit,
		Races:   b.Races,
	}
	if key.Stratified {
		row.Venue = key.VenueCode
		row.Surface = key.Surface
		bias := key.BiasFlag
		row.BiasFlag = &bias
	}
	return row
}

func lessKey(a, b models.BucketKey) bool {
	if a.Market != b.Market {
		return a.Market < b.Market
	}
	if a.Pattern != b.Pattern {
		return a.Pattern < b.Pattern
	}
	if a.AN != b.AN {
		return a.AN < b.AN
	}
	if a.BN != b.BN {
		return a.BN < b.BN
	}
	if a.CN != b.CN {
		return a.CN < b.CN
	}
	if a.Cap != b.Cap {
		return a.Cap < b.Cap
	}
	if a.VenueCode != b.VenueCode {
		return a.VenueCode < b.VenueCode
	}
	if a.Surface != b.Surface {
		return a.Surface < b.Surface
	}
	return !a.BiasFlag && b.BiasFlag
}
