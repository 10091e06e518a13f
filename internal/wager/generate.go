package wager

import "fmt"

// Generate expands a pattern over the truncated groups into de-duplicated
// wager codes. Head-counts pick the top-N of each group; cap (0 = none)
// limits the result after de-duplication, preserving generation order so the
// output is deterministic for identical inputs. Callers are responsible for
// checking Feasible first; an unknown pattern is a configuration error.
func Generate(p Pattern, g Groups, aN, bN, cN, cap int) ([]string, error) {
	var codes []string
	switch p {
	case PairAA, PairAB, PairBB:
		codes = generatePairs(p, g, aN, bN)
	case TriAxAxBC, TriAxBCxABC, TriBCxAxBC, TriBxBxBC, TriBxBCxBC, TriBCxBxBC, TriCxCxC:
		codes = generateTriples(p, g, aN, bN, cN)
	default:
		return nil, fmt.Errorf("generate: unsupported pattern %q", p)
	}
	if cap > 0 && len(codes) > cap {
		codes = codes[:cap]
	}
	return codes, nil
}

func generatePairs(p Pattern, g Groups, aN, bN int) []string {
	pickA := head(g.A, aN)
	pickB := head(g.B, bN)

	seen := make(map[string]bool)
	var out []string
	add := func(i, j int) {
		if i == j {
			return
		}
		code := PairCode(i, j)
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}

	switch p {
	case PairAA:
		for i := 0; i < len(pickA); i++ {
			for j := i + 1; j < len(pickA); j++ {
				add(pickA[i], pickA[j])
			}
		}
	case PairAB:
		for _, i := range pickA {
			for _, j := range pickB {
				add(i, j)
			}
		}
	case PairBB:
		for i := 0; i < len(pickB); i++ {
			for j := i + 1; j < len(pickB); j++ {
				add(pickB[i], pickB[j])
			}
		}
	}
	return out
}

func generateTriples(p Pattern, g Groups, aN, bN, cN int) []string {
	a := head(g.A, aN)
	b := head(g.B, bN)
	c := head(g.C, cN)
	bc := union(b, c)
	abc := union(a, bc)

	seen := make(map[string]bool)
	var out []string
	add := func(i, j, k int) {
		if i == j || j == k || i == k {
			return
		}
		code := TripleCode(i, j, k)
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	expand := func(first, second, third []int) {
		for _, i := range first {
			for _, j := range second {
				for _, k := range third {
					add(i, j, k)
				}
			}
		}
	}

	switch p {
	case TriAxAxBC:
		expand(a, a, bc)
	case TriAxBCxABC:
		expand(a, bc, abc)
	case TriBCxAxBC:
		expand(bc, a, bc)
	case TriBxBxBC:
		expand(b, b, bc)
	case TriBxBCxBC:
		expand(b, bc, bc)
	case TriBCxBxBC:
		expand(bc, b, bc)
	case TriCxCxC:
		expand(c, c, c)
	}
	return out
}

func head(nums []int, n int) []int {
	if n <= 0 || n >= len(nums) {
		return nums
	}
	return nums[:n]
}

// union concatenates two number lists dropping duplicates, preserving the
// first-seen order.
func union(x, y []int) []int {
	seen := make(map[int]bool, len(x)+len(y))
	out := make([]int, 0, len(x)+len(y))
	for _, lists := range [][]int{x, y} {
		for _, n := range lists {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
