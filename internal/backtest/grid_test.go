package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pace-bias/internal/wager"
)

func TestPairGridEnumeration(t *testing.T) {
	grid := PairGrid()
	assert.Len(t, grid, 3*3*4)
	for _, p := range grid {
		assert.True(t, p.Pattern.IsPair())
		assert.Zero(t, p.Cap)
		assert.Zero(t, p.CN)
	}
	// Stable enumeration: same grid on every call.
	assert.Equal(t, grid, PairGrid())
}

func TestTrifectaGridEnumeration(t *testing.T) {
	grid := TrifectaGrid()
	assert.Len(t, grid, 6*2*2*2*2)
	for _, p := range grid {
		assert.False(t, p.Pattern.IsPair())
		assert.Contains(t, []int{50, 100}, p.Cap)
	}
	assert.Equal(t, grid, TrifectaGrid())
}

func TestActivePatternsPrecedence(t *testing.T) {
	withA := ActivePatterns(wager.Groups{A: []int{1}, B: []int{2}})
	assert.True(t, withA[wager.PairAA])
	assert.True(t, withA[wager.PairAB])
	assert.False(t, withA[wager.PairBB])
	assert.True(t, withA[wager.TriAxBCxABC])
	assert.False(t, withA[wager.TriBxBxBC])

	onlyB := ActivePatterns(wager.Groups{B: []int{2, 3}, C: []int{4}})
	assert.False(t, onlyB[wager.PairAA])
	assert.True(t, onlyB[wager.PairBB])
	assert.True(t, onlyB[wager.TriBCxBxBC])

	onlyC := ActivePatterns(wager.Groups{C: []int{4}})
	assert.Empty(t, onlyC)
}
