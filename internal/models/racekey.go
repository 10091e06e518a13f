package models

import "fmt"

// RaceKey identifies one race. It is a comparable struct so it can be used
// directly as a map key; equality is field-wise, no string parsing involved.
type RaceKey struct {
	Date      YMD    `json:"date"`
	VenueCode string `json:"venue_code"`
	RaceNo    int    `json:"race_no"`
}

// String renders the key for logs and artifact filenames.
func (k RaceKey) String() string {
	return fmt.Sprintf("%s:%s:%02d", k.Date, k.VenueCode, k.RaceNo)
}

// ResultRow is one competitor's line from the historical results table,
// joined with its race header. Rows for one race are contiguous when the
// source query sorts by (date, venue, race, betting number).
type ResultRow struct {
	Key       RaceKey
	HorseID   string // ketto registration number
	Number    int    // betting number (umaban)
	Draw      int    // post position (wakuban)
	Finish    int    // finishing position, 0 when missing
	TrackCode string
	Passage   string // corner positions joined with '-', e.g. "3-3-2-1"
}

// GroupByRace splits a pre-sorted row stream into per-race groups. The
// boundary test compares consecutive race keys, which also flushes the final
// group. Each group is then a pure input to per-race processing.
func GroupByRace(rows []ResultRow) [][]ResultRow {
	var groups [][]ResultRow
	start := 0
	for i := range rows {
		last := i+1 == len(rows)
		if last || rows[i+1].Key != rows[i].Key {
			groups = append(groups, rows[start:i+1])
			start = i + 1
		}
	}
	return groups
}
