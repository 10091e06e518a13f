package models

import "github.com/shopspring/decimal"

// PayoutRecord holds the winning selections and payout amounts for one race,
// indexed by market. Amounts are yen per 100-yen ticket, kept as decimals.
// The record is read-only to the core; missing markets are simply empty maps.
type PayoutRecord struct {
	Key      RaceKey
	Win      map[int]decimal.Decimal    // betting number → payout
	Place    map[int]decimal.Decimal    // betting number → payout (up to 5 entries)
	Quinella map[string]decimal.Decimal // canonical pair code → payout
	Wide     map[string]decimal.Decimal // canonical pair code → payout
	Trifecta map[string]decimal.Decimal // positional triple code → payout
}

// NewPayoutRecord returns an empty record for a race.
func NewPayoutRecord(key RaceKey) *PayoutRecord {
	return &PayoutRecord{
		Key:      key,
		Win:      make(map[int]decimal.Decimal),
		Place:    make(map[int]decimal.Decimal),
		Quinella: make(map[string]decimal.Decimal),
		Wide:     make(map[string]decimal.Decimal),
		Trifecta: make(map[string]decimal.Decimal),
	}
}
