// Package wager expands tagged competitor groups into concrete wager-code
// combinations under a closed pattern grammar.
package wager

import (
	"fmt"
	"strings"

	"github.com/yourusername/pace-bias/internal/models"
)

// Pattern names a combination shape over the A/B/C style groups. Pair
// patterns feed unordered two-horse markets; trifecta patterns feed the
// ordered three-horse market. BC and ABC denote de-duplicated unions.
type Pattern string

// Pair patterns
const (
	PairAA Pattern = "AA"
	PairAB Pattern = "AB"
	PairBB Pattern = "BB"
)

// Trifecta patterns
const (
	TriAxAxBC   Pattern = "A-A-BC"
	TriAxBCxABC Pattern = "A-BC-ABC"
	TriBCxAxBC  Pattern = "BC-A-BC"
	TriBxBxBC   Pattern = "B-B-BC"
	TriBxBCxBC  Pattern = "B-BC-BC"
	TriBCxBxBC  Pattern = "BC-B-BC"
	TriCxCxC    Pattern = "C-C-C"
)

var allPatterns = map[Pattern]bool{
	PairAA: true, PairAB: true, PairBB: true,
	TriAxAxBC: true, TriAxBCxABC: true, TriBCxAxBC: true,
	TriBxBxBC: true, TriBxBCxBC: true, TriBCxBxBC: true, TriCxCxC: true,
}

// ParsePattern validates a pattern name. Unknown names are a configuration
// error, fatal at the call boundary.
func ParsePattern(s string) (Pattern, error) {
	p := Pattern(s)
	if !allPatterns[p] {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownPattern, s)
	}
	return p, nil
}

// IsPair reports whether the pattern targets a two-horse market.
func (p Pattern) IsPair() bool {
	return p == PairAA || p == PairAB || p == PairBB
}

// usesGroup reports whether the pattern draws from the given style letter.
func (p Pattern) usesGroup(letter string) bool {
	return strings.Contains(string(p), letter)
}

// Groups holds the A/B/C betting-number lists for one race, each sorted by
// the caller (typically ascending betting number).
type Groups struct {
	A []int
	B []int
	C []int
}

// Feasible reports whether the pattern can be generated from the groups at
// the requested head-counts. A pattern that draws two selections from the
// same group additionally needs at least two members there. Infeasible
// combinations are skipped entirely by the caller, never truncated.
func Feasible(p Pattern, g Groups, aN, bN, cN int) bool {
	if p.usesGroup("A") && len(g.A) < aN {
		return false
	}
	if p.usesGroup("B") && len(g.B) < bN {
		return false
	}
	if p.usesGroup("C") && len(g.C) < cN {
		return false
	}
	switch p {
	case PairAA:
		return len(g.A) >= 2
	case PairBB:
		return len(g.B) >= 2
	}
	return true
}
