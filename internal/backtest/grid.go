package backtest

import "github.com/yourusername/pace-bias/internal/wager"

// Params is one cell of the combination parameter grid: the pattern to
// expand plus the head-counts and point cap it is expanded under. The grid
// is an enumerable slice so a run's parameter space is visible in one place
// and stable across runs.
type Params struct {
	Pattern wager.Pattern
	AN      int
	BN      int
	CN      int
	Cap     int // 0 = uncapped
}

// PairGrid enumerates the pair parameter space: every pair pattern crossed
// with head-counts aN 1..3 and bN 1..4, uncapped. Which patterns actually
// fire for a race is decided per race by ActivePatterns.
func PairGrid() []Params {
	var grid []Params
	for _, p := range []wager.Pattern{wager.PairAA, wager.PairAB, wager.PairBB} {
		for aN := 1; aN <= 3; aN++ {
			for bN := 1; bN <= 4; bN++ {
				grid = append(grid, Params{Pattern: p, AN: aN, BN: bN})
			}
		}
	}
	return grid
}

// TrifectaGrid enumerates the trifecta parameter space: every trifecta
// pattern crossed with head-counts aN,bN,cN in {1,2} and point caps 50/100.
func TrifectaGrid() []Params {
	patterns := []wager.Pattern{
		wager.TriAxAxBC, wager.TriAxBCxABC, wager.TriBCxAxBC,
		wager.TriBxBxBC, wager.TriBxBCxBC, wager.TriBCxBxBC,
	}
	var grid []Params
	for _, p := range patterns {
		for aN := 1; aN <= 2; aN++ {
			for bN := 1; bN <= 2; bN++ {
				for cN := 1; cN <= 2; cN++ {
					for _, cap := range []int{50, 100} {
						grid = append(grid, Params{Pattern: p, AN: aN, BN: bN, CN: cN, Cap: cap})
					}
				}
			}
		}
	}
	return grid
}

// ActivePatterns returns the pattern set that fires for a race given its
// group occupancy. Front-runner patterns take precedence: when the race has
// at least one A horse only the A-axis patterns run, otherwise the B-axis
// patterns run if any presser exists, otherwise nothing.
func ActivePatterns(g wager.Groups) map[wager.Pattern]bool {
	active := make(map[wager.Pattern]bool)
	switch {
	case len(g.A) > 0:
		active[wager.PairAA] = true
		active[wager.PairAB] = true
		active[wager.TriAxAxBC] = true
		active[wager.TriAxBCxABC] = true
		active[wager.TriBCxAxBC] = true
	case len(g.B) > 0:
		active[wager.PairBB] = true
		active[wager.TriBxBxBC] = true
		active[wager.TriBxBCxBC] = true
		active[wager.TriBCxBxBC] = true
	}
	return active
}
