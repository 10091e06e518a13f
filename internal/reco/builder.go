// Package reco turns backtested bucket tables and an augmented race-day card
// into per-race wagering recommendations. Every market gates strictly on
// backtested ROI above break-even; there is no fallback output.
package reco

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/pace"
)

// Options tune the gate thresholds. The ROI minimums are floored at 1.0
// regardless of configuration; the odds band filters win bets unless
// NoWinOddsCut disables it.
type Options struct {
	WinROIMin    float64
	PlaceROIMin  float64
	WinOddsMin   float64
	WinOddsMax   float64
	NoWinOddsCut bool
}

// DefaultOptions returns the standard gate thresholds.
func DefaultOptions() Options {
	return Options{
		WinROIMin:   1.0,
		PlaceROIMin: 1.0,
		WinOddsMin:  2.0,
		WinOddsMax:  25.0,
	}
}

// stratum is the pair-bucket lookup key on the race-day side.
type stratum struct {
	Venue   string
	Surface models.Surface
	Bias    bool
}

// Builder holds the backtest tables a day's recommendations draw from.
type Builder struct {
	pairs  map[stratum][]models.BucketRow
	style  map[models.StyleKey]StyleROI
	opts   Options
	logger *logrus.Logger
}

// NewBuilder indexes the latest backtest artifacts for recommendation
// building. Only stratified quinella rows participate in the pair gate.
func NewBuilder(buckets []models.BucketRow, styles []models.StyleRow, opts Options, logger *logrus.Logger) *Builder {
	pairs := make(map[stratum][]models.BucketRow)
	for _, row := range buckets {
		if row.Market != models.MarketQuinella || row.BiasFlag == nil {
			continue
		}
		key := stratum{Venue: models.VenueCode(row.Venue), Surface: row.Surface, Bias: *row.BiasFlag}
		pairs[key] = append(pairs[key], row)
	}
	for key := range pairs {
		rows := pairs[key]
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].ROI != rows[j].ROI {
				return rows[i].ROI > rows[j].ROI
			}
			return rows[i].Races > rows[j].Races
		})
	}

	style := make(map[models.StyleKey]StyleROI, len(styles))
	for _, row := range styles {
		key := models.StyleKey{
			VenueCode: models.VenueCode(row.Venue),
			Surface:   row.Surface,
			Style:     row.Style,
		}
		style[key] = StyleROI{Win: row.WinROI, Place: row.PlaceROI}
	}

	return &Builder{pairs: pairs, style: style, opts: opts, logger: logger}
}

// BuildDay builds the recommendation document for one augmented day card.
// Every race with entries appears in the output; races that clear no gate
// carry empty selections.
func (b *Builder) BuildDay(day *models.RaceDay) *models.DayReco {
	out := &models.DayReco{Date: day.Date}
	for mi := range day.Meetings {
		meeting := &day.Meetings[mi]
		for ri := range meeting.Races {
			race := &meeting.Races[ri]
			if len(race.Horses) == 0 {
				continue
			}
			out.Races = append(out.Races, b.buildRace(meeting, race))
		}
	}
	b.logger.WithFields(logrus.Fields{
		"date":  day.Date,
		"races": len(out.Races),
	}).Info("recommendations built")
	return out
}

func (b *Builder) buildRace(meeting *models.Meeting, race *models.RaceCard) models.Recommendation {
	rec := models.Recommendation{Track: meeting.Track, No: race.No}

	var favored []string
	if race.PaceScore != nil {
		favored = FavoredStyles(*race.PaceScore)
	}
	var roi *StyleROI
	var favStyle string
	if len(favored) > 0 {
		favStyle = favored[0]
		key := models.StyleKey{VenueCode: meeting.VenueCode(), Surface: race.Surface(), Style: favStyle}
		if v, ok := b.style[key]; ok {
			roi = &v
		}
	}

	scored := scoreRace(race, roi)

	var win, place []int
	for _, entry := range scored[:min(5, len(scored))] {
		if entry.score >= 2 && len(win) < 2 && b.winOddsOK(entry.horse.Odds) {
			win = append(win, entry.horse.Num)
		}
		if entry.score >= 1.5 && len(place) < 3 {
			place = append(place, entry.horse.Num)
		}
	}
	var box []int
	for _, entry := range scored {
		if entry.score >= 1.5 && len(box) < 3 {
			box = append(box, entry.horse.Num)
		}
	}

	if roi != nil && roi.Win > max(1.0, b.opts.WinROIMin) {
		rec.Win = win
	}
	if roi != nil && roi.Place > max(1.0, b.opts.PlaceROIMin) {
		rec.Place = place
	}

	var notes []string

	// Pair gate: best stratified quinella bucket that is feasible for this
	// field and backtested above break-even. The box only shows when it
	// clears.
	bias := race.PaceScore != nil && pace.NotableScore(*race.PaceScore)
	aCount, bCount := typeCounts(race)
	for _, row := range b.pairs[stratum{Venue: meeting.VenueCode(), Surface: race.Surface(), Bias: bias}] {
		if !pairFeasible(row, aCount, bCount) {
			continue
		}
		if row.ROI > 1.0 {
			notes = append(notes, pairNote(row))
			if len(box) >= 2 {
				rec.QuinellaBox = box
			}
			break
		}
	}

	if len(rec.Win) > 0 || len(rec.Place) > 0 {
		if race.PaceScore != nil {
			notes = append(notes, fmt.Sprintf("展開カウント: %s%s",
				strconv.FormatFloat(*race.PaceScore, 'f', -1, 64), race.PaceMark))
		}
		if len(favored) > 0 {
			notes = append(notes, "展開タイプ: "+strings.Join(favored, "/"))
		}
		if roi != nil && favStyle != "" {
			notes = append(notes, fmt.Sprintf("過去ROI(%s/%s/%s): 単%.2f 複%.2f",
				meeting.Track, race.Ground, favStyle, roi.Win, roi.Place))
		}
	}
	rec.Notes = notes
	return rec
}

func (b *Builder) winOddsOK(odds *float64) bool {
	if odds == nil {
		return false
	}
	if b.opts.NoWinOddsCut {
		return true
	}
	return *odds >= b.opts.WinOddsMin && *odds <= b.opts.WinOddsMax
}

func typeCounts(race *models.RaceCard) (aCount, bCount int) {
	for i := range race.Horses {
		if race.Horses[i].HasType("A") {
			aCount++
		}
		if race.Horses[i].HasType("B") {
			bCount++
		}
	}
	return aCount, bCount
}

// pairFeasible checks a backtested bucket's head-counts against the current
// field's group sizes.
func pairFeasible(row models.BucketRow, aCount, bCount int) bool {
	switch row.Pattern {
	case "AA":
		return aCount >= 2
	case "AB":
		return aCount >= row.AN && bCount >= row.BN
	case "BB":
		return bCount >= 2 && bCount >= row.BN
	}
	return false
}

func pairNote(row models.BucketRow) string {
	var tag strings.Builder
	if strings.Contains(row.Pattern, "A") {
		fmt.Fprintf(&tag, "A%d/", row.AN)
	}
	fmt.Fprintf(&tag, "B%d", row.BN)
	return fmt.Sprintf("推奨: 馬連 %s %s ROI%.2f n=%d", row.Pattern, tag.String(), row.ROI, row.Races)
}
