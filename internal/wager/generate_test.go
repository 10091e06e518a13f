package wager

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairCodeCanonical(t *testing.T) {
	assert.Equal(t, PairCode(3, 5), PairCode(5, 3))
	assert.Equal(t, "0305", PairCode(5, 3))
	assert.Equal(t, "0112", PairCode(12, 1))
}

func TestGenerateABPairs(t *testing.T) {
	g := Groups{A: []int{3}, B: []int{1, 5}}
	codes, err := Generate(PairAB, g, 1, 2, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"0103", "0305"}, codes)
}

func TestGenerateAAPairs(t *testing.T) {
	g := Groups{A: []int{2, 7, 9}}
	codes, err := Generate(PairAA, g, 3, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"0207", "0209", "0709"}, codes)
}

func TestGeneratePairsSkipsSelfPair(t *testing.T) {
	// A horse can be tagged both FrontRunner and PacePresser; it must never
	// pair with itself.
	g := Groups{A: []int{4}, B: []int{4, 6}}
	codes, err := Generate(PairAB, g, 1, 2, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"0406"}, codes)
}

func TestGenerateTriplesNoRepeats(t *testing.T) {
	g := Groups{A: []int{1, 2}, B: []int{3}, C: []int{4}}
	codes, err := Generate(TriAxBCxABC, g, 2, 1, 1, 0)
	require.NoError(t, err)
	require.NotEmpty(t, codes)
	for _, code := range codes {
		first, second, third := code[0:2], code[2:4], code[4:6]
		assert.NotEqual(t, first, second, code)
		assert.NotEqual(t, second, third, code)
		assert.NotEqual(t, first, third, code)
	}
}

func TestGenerateTriplesUnionDeduplicates(t *testing.T) {
	// Horse 3 sits in both B and C; the BC union must hold it once, so the
	// expansion yields no duplicate codes.
	g := Groups{A: []int{1}, B: []int{3, 5}, C: []int{3}}
	codes, err := Generate(TriAxAxBC, g, 2, 2, 1, 0)
	require.NoError(t, err)
	// Only one A member: A-A- cannot fill two distinct leading slots.
	assert.Empty(t, codes)

	g.A = []int{1, 2}
	codes, err = Generate(TriAxAxBC, g, 2, 2, 1, 0)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, code := range codes {
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, codes, 4) // 2 orderings of {1,2} x BC {3,5}
}

func TestGenerateCapPreservesLeadingCodes(t *testing.T) {
	g := Groups{B: []int{1, 2}, C: []int{3, 4}}
	full, err := Generate(TriBxBCxBC, g, 0, 2, 2, 0)
	require.NoError(t, err)
	capped, err := Generate(TriBxBCxBC, g, 0, 2, 2, 3)
	require.NoError(t, err)
	require.Len(t, capped, 3)
	assert.Equal(t, full[:3], capped)
}

func TestParsePatternUnknown(t *testing.T) {
	_, err := ParsePattern("A-A-A-A")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown wager pattern"))

	p, err := ParsePattern("BC-A-BC")
	require.NoError(t, err)
	assert.Equal(t, TriBCxAxBC, p)
}

func TestFeasible(t *testing.T) {
	g := Groups{A: []int{1}, B: []int{2, 3}, C: []int{4}}

	// AA needs two A members regardless of head-count.
	assert.False(t, Feasible(PairAA, g, 1, 0, 0))
	assert.True(t, Feasible(PairBB, g, 0, 2, 0))

	// AB needs each group to cover its head-count.
	assert.True(t, Feasible(PairAB, g, 1, 2, 0))
	assert.False(t, Feasible(PairAB, g, 2, 2, 0))

	// Trifecta patterns need every referenced group covered.
	assert.True(t, Feasible(TriBxBxBC, g, 0, 2, 1))
	assert.False(t, Feasible(TriBxBxBC, g, 0, 3, 1))
	assert.False(t, Feasible(TriCxCxC, g, 0, 0, 2))
}
