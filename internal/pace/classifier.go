// Package pace derives running-style tags from passage history and reduces a
// race's tags into a single pace-bias score.
package pace

import (
	"strconv"
	"strings"
)

// StyleTag is the set of running-style tags held by one competitor. A
// competitor may hold FrontRunner and PacePresser together; PacePresser and
// Other are mutually exclusive by construction.
type StyleTag uint8

// Style tags
const (
	FrontRunner StyleTag = 1 << iota // A: led or near-led at the first corner in 2+ of the last 3 starts
	PacePresser                      // B: stayed within the first four at every corner in 2+ starts
	Other                            // C: did so in exactly one start
)

// Has reports whether the tag set contains t.
func (s StyleTag) Has(t StyleTag) bool { return s&t != 0 }

// IsEmpty reports whether no tag is set.
func (s StyleTag) IsEmpty() bool { return s == 0 }

// Letters returns the tag set as style letters in A/B/C order.
func (s StyleTag) Letters() []string {
	var out []string
	if s.Has(FrontRunner) {
		out = append(out, "A")
	}
	if s.Has(PacePresser) {
		out = append(out, "B")
	}
	if s.Has(Other) {
		out = append(out, "C")
	}
	return out
}

// FromLetters rebuilds a tag set from style letters.
func FromLetters(letters []string) StyleTag {
	var s StyleTag
	for _, l := range letters {
		switch l {
		case "A":
			s |= FrontRunner
		case "B":
			s |= PacePresser
		case "C":
			s |= Other
		}
	}
	return s
}

// maxPassages caps how many prior starts contribute to classification.
const maxPassages = 3

// Classify derives a competitor's style tags from its passage strings, most
// recent first. Non-numeric or zero segments are unmeasured and discarded; a
// passage with no measured segment contributes nothing. Missing history is
// not an error: the result is simply the empty tag set.
func Classify(passages []string) StyleTag {
	stayedForward := 0
	frontRuns := 0

	considered := 0
	for _, raw := range passages {
		if considered >= maxPassages {
			break
		}
		segs := ParsePassage(raw)
		if len(segs) == 0 {
			continue
		}
		considered++

		forward := true
		for _, s := range segs {
			if s > 4 {
				forward = false
				break
			}
		}
		if forward {
			stayedForward++
		}
		if ledEarly(segs) {
			frontRuns++
		}
	}

	var tags StyleTag
	if frontRuns >= 2 {
		tags |= FrontRunner
	}
	if stayedForward >= 2 {
		tags |= PacePresser
	} else if stayedForward == 1 {
		tags |= Other
	}
	return tags
}

// ledEarly reports whether a passage counts as a front-running race: first
// corner in the lead, or second at the first corner with the leader already
// headed by the second. Single-corner passages only qualify on the lead.
func ledEarly(segs []int) bool {
	if len(segs) == 1 {
		return segs[0] == 1
	}
	return segs[0] == 1 || (segs[0] == 2 && segs[1] == 1)
}

// ParsePassage splits a corner-passage string ("3-3-2-1") into measured
// positions. Zero and non-numeric segments are dropped.
func ParsePassage(raw string) []int {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r < '0' || r > '9'
	})
	segs := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			continue
		}
		segs = append(segs, n)
	}
	return segs
}
