package models

// RaceDay is the published race-day card: one JSON document per calendar day,
// meetings grouped by venue. The shape matches the files the site publisher
// consumes, so augmented fields round-trip through the same documents.
type RaceDay struct {
	Date     string    `json:"date"` // yyyy-mm-dd
	Meetings []Meeting `json:"meetings"`
}

// Meeting is one venue's card for the day.
type Meeting struct {
	Track   string     `json:"track"` // venue display name
	Kaiji   int        `json:"kaiji"`
	Nichiji int        `json:"nichiji"`
	Races   []RaceCard `json:"races"`
}

// VenueCode returns the two-digit code for the meeting's venue.
func (m *Meeting) VenueCode() string { return VenueCode(m.Track) }

// RaceCard is the per-race snapshot: entry list plus the derived pace fields.
// It is immutable after the data pull except for the augmentation step that
// fills PaceScore, PaceMark and the per-horse style tags.
type RaceCard struct {
	No        int         `json:"no"`
	Name      string      `json:"name"`
	DistanceM int         `json:"distance_m"`
	Ground    string      `json:"ground"` // 芝 / ダ / 障
	PaceScore *float64    `json:"pace_score,omitempty"`
	PaceMark  string      `json:"pace_mark,omitempty"`
	Horses    []CardHorse `json:"horses"`
}

// Surface returns the race surface.
func (r *RaceCard) Surface() Surface { return SurfaceFromGround(r.Ground) }

// Notable reports whether the race carries the pace-bias display mark.
func (r *RaceCard) Notable() bool { return r.PaceMark != "" }

// CardHorse is one entry on a race card.
type CardHorse struct {
	Num        int      `json:"num"`
	Draw       int      `json:"draw"`
	Name       string   `json:"name"`
	Odds       *float64 `json:"odds,omitempty"`
	Popularity *int     `json:"popularity,omitempty"`
	Ketto      string   `json:"ketto,omitempty"` // registration number for history lookups
	PaceType   []string `json:"pace_type,omitempty"`
}

// HasType reports whether the horse carries the given style letter.
func (h *CardHorse) HasType(letter string) bool {
	for _, t := range h.PaceType {
		if t == letter {
			return true
		}
	}
	return false
}
