package pace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreRaceNoData(t *testing.T) {
	res := ScoreRace([]StyleTag{0, 0, 0}, false)
	assert.Equal(t, NoDataScore, res.Score)
	assert.True(t, res.NoData)
	assert.False(t, res.Notable)
}

func TestScoreRaceFormula(t *testing.T) {
	// 3 pressers (+3.0), 1 other (+0.5), 2 front runners (+1.5),
	// pressers > 2 so no few-presser penalty.
	tags := []StyleTag{
		PacePresser, PacePresser, PacePresser,
		Other,
		FrontRunner, FrontRunner,
		0,
	}
	res := ScoreRace(tags, true)
	assert.InDelta(t, 5.0, res.Score, 1e-9)
	assert.False(t, res.Notable)
}

func TestScoreRaceNoFrontRunners(t *testing.T) {
	// 2 pressers (+2.0), no A (-2.5), pressers <= 2 (-1.0) = -1.5.
	tags := []StyleTag{PacePresser, PacePresser, 0, 0}
	res := ScoreRace(tags, true)
	assert.InDelta(t, -1.5, res.Score, 1e-9)
	assert.True(t, res.Notable)
}

func TestScoreRaceAllUntaggedMatchesSentinelValue(t *testing.T) {
	// Horses ran but none earned a tag: the formula lands on -3.5 as well,
	// and the race must not be marked notable.
	res := ScoreRace([]StyleTag{0, 0, 0, 0}, true)
	assert.InDelta(t, NoDataScore, res.Score, 1e-9)
	assert.False(t, res.Notable)
	assert.False(t, res.NoData)
}

func TestScoreRacePresserCountedOnceWhenAlsoOther(t *testing.T) {
	// A presser tag suppresses the other-weight for the same horse.
	withBoth := ScoreRace([]StyleTag{PacePresser | Other, FrontRunner}, true)
	justPresser := ScoreRace([]StyleTag{PacePresser, FrontRunner}, true)
	assert.Equal(t, justPresser.Score, withBoth.Score)
}

func TestScoreRaceDeterministic(t *testing.T) {
	tags := []StyleTag{PacePresser, Other, FrontRunner, 0, PacePresser | FrontRunner}
	first := ScoreRace(tags, true)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ScoreRace(tags, true))
	}
}

func TestGroups(t *testing.T) {
	numbers := []int{1, 2, 3, 4}
	tags := []StyleTag{FrontRunner, PacePresser, Other, FrontRunner | PacePresser}
	a, b, c := Groups(numbers, tags)
	assert.Equal(t, []int{1, 4}, a)
	assert.Equal(t, []int{2, 4}, b)
	assert.Equal(t, []int{3}, c)
}
