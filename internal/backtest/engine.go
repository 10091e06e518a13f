// Package backtest replays historical races against the pace classifier and
// accumulates wager-combination statistics into stratified buckets.
package backtest

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/pace"
	"github.com/yourusername/pace-bias/internal/wager"
)

// HistorySource yields prior-race passage strings for a set of horses. The
// cutoff is exclusive: implementations must only return races run strictly
// before it, newest first, at most the classifier window per horse. That
// contract is the lookahead guard for the whole engine.
type HistorySource interface {
	PassagesBefore(ctx context.Context, horseIDs []string, cutoff models.YMD) (map[string][]string, error)
}

// Aggregator folds a pre-sorted result-row stream into a bucket table. It is
// stateless between runs; every Run builds a fresh table, so replaying the
// same window yields an identical table.
type Aggregator struct {
	history HistorySource
	grid    []Params
	logger  *logrus.Logger
}

// NewAggregator wires an aggregator over a history source and parameter grid.
func NewAggregator(history HistorySource, grid []Params, logger *logrus.Logger) *Aggregator {
	return &Aggregator{history: history, grid: grid, logger: logger}
}

// Run replays every race in rows, settling generated combinations against
// payouts. Rows must be sorted by (date, venue, race, betting number);
// payouts may be missing for any race, in which case its stake still counts
// but nothing returns.
func (a *Aggregator) Run(ctx context.Context, rows []models.ResultRow, payouts map[models.RaceKey]*models.PayoutRecord, unitStake decimal.Decimal) (*BucketTable, error) {
	table := NewBucketTable(unitStake)
	for _, race := range models.GroupByRace(rows) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("backtest interrupted: %w", err)
		}
		if err := a.processRace(ctx, race, payouts[race[0].Key], table); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (a *Aggregator) processRace(ctx context.Context, race []models.ResultRow, payout *models.PayoutRecord, table *BucketTable) error {
	key := race[0].Key
	surface := models.SurfaceFromTrackCode(race[0].TrackCode)
	if surface == models.SurfaceObstacle {
		return nil
	}

	ids := make([]string, len(race))
	numbers := make([]int, len(race))
	for i, row := range race {
		ids[i] = row.HorseID
		numbers[i] = row.Number
	}

	passages, err := a.history.PassagesBefore(ctx, ids, key.Date)
	if err != nil {
		// Degrade to untagged rather than abort the run; the race scores
		// as no-data and generates nothing.
		a.logger.WithError(err).WithField("race", key.String()).
			Warn("history lookup failed, treating race as no-data")
		passages = nil
	}

	anyHistory := false
	tags := make([]pace.StyleTag, len(race))
	for i, row := range race {
		past := passages[row.HorseID]
		if len(past) > 0 {
			anyHistory = true
		}
		tags[i] = pace.Classify(past)
	}

	aNums, bNums, cNums := pace.Groups(numbers, tags)
	groups := wager.Groups{A: aNums, B: bNums, C: cNums}
	score := pace.ScoreRace(tags, anyHistory)
	active := ActivePatterns(groups)

	for _, p := range a.grid {
		if !active[p.Pattern] {
			continue
		}
		if !wager.Feasible(p.Pattern, groups, p.AN, p.BN, p.CN) {
			continue
		}
		codes, err := wager.Generate(p.Pattern, groups, p.AN, p.BN, p.CN, p.Cap)
		if err != nil {
			return fmt.Errorf("race %s: %w", key.String(), err)
		}
		if len(codes) == 0 {
			continue
		}
		if p.Pattern.IsPair() {
			a.settlePairs(table, key, surface, score.Notable, p, codes, payout)
		} else {
			a.settleTrifecta(table, p, codes, payout)
		}
	}
	return nil
}

// settlePairs books one combination list against both two-horse markets.
// Quinella pays the first matching code at most once; wide sums every
// matching code since several selections can finish in the top three.
func (a *Aggregator) settlePairs(table *BucketTable, key models.RaceKey, surface models.Surface, bias bool, p Params, codes []string, payout *models.PayoutRecord) {
	strata := func(market models.Market) models.BucketKey {
		return models.BucketKey{
			Market:     market,
			Pattern:    string(p.Pattern),
			AN:         p.AN,
			BN:         p.BN,
			Stratified: true,
			VenueCode:  key.VenueCode,
			Surface:    surface,
			BiasFlag:   bias,
		}
	}
	quinella := strata(models.MarketQuinella)
	wide := strata(models.MarketWide)

	table.addStake(quinella, len(codes))
	table.addStake(wide, len(codes))
	if payout == nil {
		return
	}

	for _, code := range codes {
		if pay, ok := payout.Quinella[code]; ok {
			table.addReturn(quinella, pay, true)
			break
		}
	}

	wideReturn := decimal.Zero
	matched := false
	for _, code := range codes {
		if pay, ok := payout.Wide[code]; ok {
			wideReturn = wideReturn.Add(pay)
			matched = true
		}
	}
	if matched {
		table.addReturn(wide, wideReturn, true)
	}
}

func (a *Aggregator) settleTrifecta(table *BucketTable, p Params, codes []string, payout *models.PayoutRecord) {
	key := models.BucketKey{
		Market:  models.MarketTrifecta,
		Pattern: string(p.Pattern),
		AN:      p.AN,
		BN:      p.BN,
		CN:      p.CN,
		Cap:     p.Cap,
	}
	table.addStake(key, len(codes))
	if payout == nil {
		return
	}
	for _, code := range codes {
		if pay, ok := payout.Trifecta[code]; ok {
			table.addReturn(key, pay, true)
			break
		}
	}
}
