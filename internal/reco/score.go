package reco

import (
	"fmt"
	"sort"

	"github.com/yourusername/pace-bias/internal/models"
)

// StyleROI is the backtested win/place return for one (venue, surface, style)
// stratum.
type StyleROI struct {
	Win   float64
	Place float64
}

// FavoredStyles maps a race's pace score to the style letters the expected
// race shape favors. Low scores mean a contested early pace that sets up the
// closers; high scores mean an uncontested lead. The middle band favors
// nothing and the outer edges of it only weakly.
func FavoredStyles(score float64) []string {
	switch {
	case score <= 2.0:
		return []string{"B", "C"}
	case score >= 3.5:
		return []string{"A"}
	case score < 2.5:
		return []string{"B"}
	case score > 3.0:
		return []string{"A"}
	}
	return nil
}

// ScoreEntry scores one card entry against the race's expected shape.
// Agreement with a favored style earns the bulk of the score; extreme pace
// counts, the display mark and the stratum's backtested place ROI nudge it.
// The returned reasons feed the recommendation notes.
func ScoreEntry(race *models.RaceCard, horse *models.CardHorse, roi *StyleROI) (float64, []string) {
	score := 0.0
	var reasons []string

	if race.PaceScore != nil {
		for _, letter := range FavoredStyles(*race.PaceScore) {
			if !horse.HasType(letter) {
				continue
			}
			switch letter {
			case "A":
				score += 2
				reasons = append(reasons, "展開=先行追い風")
			case "B":
				score += 2
				reasons = append(reasons, "展開=差し追い風")
			case "C":
				score += 1
				reasons = append(reasons, "展開=その他追い風")
			}
		}
		if *race.PaceScore <= 2.0 {
			score += 0.5
			reasons = append(reasons, "展開カウント低め")
		}
		if *race.PaceScore >= 3.5 {
			score += 0.25
			reasons = append(reasons, "展開カウント高め")
		}
		if race.PaceMark != "" {
			score += 0.5
			reasons = append(reasons, "展開★")
		}
	}

	if roi != nil {
		// Flat at place ROI 1.0; only the excess adds weight, 0.2 to 0.6.
		w := roi.Place - 1
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
		add := 0.2 + min(0.4, w*0.6)
		score += add
		reasons = append(reasons, fmt.Sprintf("ROI補正(+%.2f)", add))
	}

	return score, reasons
}

type scoredEntry struct {
	horse   models.CardHorse
	score   float64
	value   float64
	reasons []string
}

// scoreRace scores every entry and orders them by score, then value index
// (score over implied win probability), then market popularity.
func scoreRace(race *models.RaceCard, roi *StyleROI) []scoredEntry {
	scored := make([]scoredEntry, 0, len(race.Horses))
	for i := range race.Horses {
		horse := &race.Horses[i]
		s, reasons := ScoreEntry(race, horse, roi)
		scored = append(scored, scoredEntry{
			horse:   *horse,
			score:   s,
			value:   valueIndex(s, horse.Odds),
			reasons: reasons,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].value != scored[j].value {
			return scored[i].value > scored[j].value
		}
		return popularityOf(&scored[i].horse) < popularityOf(&scored[j].horse)
	})
	return scored
}

// valueIndex relates a positive score to the market's implied win
// probability; longer odds on the same score mean more value.
func valueIndex(score float64, odds *float64) float64 {
	if odds == nil || *odds <= 0 || score <= 0 {
		return 0
	}
	return score / max(1 / *odds, 0.01)
}

func popularityOf(h *models.CardHorse) int {
	if h.Popularity == nil {
		return 999
	}
	return *h.Popularity
}
