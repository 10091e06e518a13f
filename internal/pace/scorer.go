package pace

// Sentinel score for races where no competitor has any usable passage
// history; it marks "no data" as opposed to "data says balanced pace".
const NoDataScore = -3.5

// Score adjustments. The zero-front-runner penalty was -1.5 in early
// revisions of the rule set; -2.5 is the current value.
const (
	presserWeight        = 1.0
	otherWeight          = 0.5
	noFrontRunnerAdjust  = -2.5
	manyFrontRunnerBoost = 1.5
	fewPresserAdjust     = -1.0
)

// notableCeiling is the inclusive score bound below which a race carries the
// pace-bias display mark.
const notableCeiling = 4.0

// RaceScore is the reduced race-level pace bias.
type RaceScore struct {
	Score   float64
	Notable bool
	NoData  bool
}

// ScoreRace reduces the tag sets of a race's competitors to a pace score.
// anyHistory must be false only when no competitor had a single usable
// passage; the score is then pinned to the sentinel. The reduction is pure
// and bit-reproducible for identical inputs.
func ScoreRace(tags []StyleTag, anyHistory bool) RaceScore {
	if !anyHistory {
		return RaceScore{Score: NoDataScore, NoData: true}
	}

	score := 0.0
	pressers := 0
	frontRunners := 0
	for _, t := range tags {
		if t.Has(PacePresser) {
			score += presserWeight
			pressers++
		} else if t.Has(Other) {
			score += otherWeight
		}
		if t.Has(FrontRunner) {
			frontRunners++
		}
	}

	if frontRunners == 0 {
		score += noFrontRunnerAdjust
	} else if frontRunners >= 2 {
		score += manyFrontRunnerBoost
	}
	if pressers <= 2 {
		score += fewPresserAdjust
	}

	return RaceScore{
		Score:   score,
		Notable: NotableScore(score),
	}
}

// NotableScore reports whether a pace score carries the bias display mark:
// at or below the ceiling but not the no-data sentinel.
func NotableScore(score float64) bool {
	return score <= notableCeiling && score != NoDataScore
}

// Groups splits competitors into A/B/C betting-number lists from their tags.
// Numbers come back in input order; callers sort as needed.
func Groups(numbers []int, tags []StyleTag) (a, b, c []int) {
	for i, t := range tags {
		if t.Has(FrontRunner) {
			a = append(a, numbers[i])
		}
		if t.Has(PacePresser) {
			b = append(b, numbers[i])
		}
		if t.Has(Other) {
			c = append(c, numbers[i])
		}
	}
	return a, b, c
}
