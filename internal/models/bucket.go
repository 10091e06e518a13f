package models

import "github.com/shopspring/decimal"

// BucketKey is the stratification tuple a backtest bucket accumulates under.
// It is a comparable struct used directly as a map key; the venue, surface
// and bias fields are only meaningful when Stratified is true (the pair
// pipeline stratifies, the trifecta pipeline does not).
type BucketKey struct {
	Market     Market
	Pattern    string
	AN, BN, CN int
	Cap        int // 0 = uncapped
	Stratified bool
	VenueCode  string
	Surface    Surface
	BiasFlag   bool
}

// Bucket accumulates stake/return/hit statistics for one stratification key.
// ROI is computed lazily at read time, never stored as a running average.
type Bucket struct {
	Stake  decimal.Decimal
	Return decimal.Decimal
	Hit    int
	Races  int
}

// ROI returns return/stake, or 0 when no stake was placed.
func (b *Bucket) ROI() float64 {
	if b.Stake.IsZero() {
		return 0
	}
	roi, _ := b.Return.Div(b.Stake).Float64()
	return roi
}

// BucketRow is the exported, flattened form of a bucket: one row of the
// aggregation table consumed by the recommendation gate and artifact files.
type BucketRow struct {
	Market   Market          `json:"market"`
	Pattern  string          `json:"pattern"`
	AN       int             `json:"a_n"`
	BN       int             `json:"b_n"`
	CN       int             `json:"c_n,omitempty"`
	Cap      int             `json:"cap,omitempty"`
	Points   int64           `json:"points"`
	Stake    decimal.Decimal `json:"stake"`
	Return   decimal.Decimal `json:"return"`
	ROI      float64         `json:"roi"`
	Hit      int             `json:"hit"`
	Races    int             `json:"races"`
	Venue    string          `json:"venue,omitempty"`
	Surface  Surface         `json:"surface,omitempty"`
	BiasFlag *bool           `json:"bias,omitempty"`
}

// StyleKey strata per-runner style statistics by venue, surface and the
// running style shown on race day.
type StyleKey struct {
	VenueCode string
	Surface   Surface
	Style     string // "A" front, "B" closer, "C" mixed
}

// StyleBucket accumulates per-runner win/place outcomes for one style key.
// Stake here is only counted when the payout row for the race exists, which
// keeps win/place ROI comparable to realized returns.
type StyleBucket struct {
	Starters    int
	Wins        int
	Places      int
	WinStake    decimal.Decimal
	WinReturn   decimal.Decimal
	PlaceStake  decimal.Decimal
	PlaceReturn decimal.Decimal
}

// WinROI returns win return over win stake, 0 when no stake.
func (s *StyleBucket) WinROI() float64 {
	if s.WinStake.IsZero() {
		return 0
	}
	roi, _ := s.WinReturn.Div(s.WinStake).Float64()
	return roi
}

// PlaceROI returns place return over place stake, 0 when no stake.
func (s *StyleBucket) PlaceROI() float64 {
	if s.PlaceStake.IsZero() {
		return 0
	}
	roi, _ := s.PlaceReturn.Div(s.PlaceStake).Float64()
	return roi
}

// StyleRow is the exported form of a style bucket.
type StyleRow struct {
	Venue     string  `json:"venue"`
	Surface   Surface `json:"surface"`
	Style     string  `json:"style"`
	Starters  int     `json:"starters"`
	WinRate   float64 `json:"win_rate"`
	PlaceRate float64 `json:"place_rate"`
	WinROI    float64 `json:"win_roi"`
	PlaceROI  float64 `json:"place_roi"`
}
