package wager

import "fmt"

// PairCode renders the canonical code for an unordered two-horse selection:
// both numbers zero-padded to two digits, ascending, so code(i,j)==code(j,i).
func PairCode(i, j int) string {
	if j < i {
		i, j = j, i
	}
	return fmt.Sprintf("%02d%02d", i, j)
}

// TripleCode renders the positional code for an ordered three-horse
// selection; left-to-right finishing order is preserved.
func TripleCode(i, j, k int) string {
	return fmt.Sprintf("%02d%02d%02d", i, j, k)
}
