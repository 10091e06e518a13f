package models

// Recommendation is the per-race output of the recommendation gate. Markets
// gate independently, so any subset of the selection lists may be present.
// Notes carry the human-readable rationale, including the backtested ROI and
// sample size the recommendation rests on.
type Recommendation struct {
	Track       string   `json:"track"`
	No          int      `json:"no"`
	Win         []int    `json:"win,omitempty"`
	Place       []int    `json:"place,omitempty"`
	QuinellaBox []int    `json:"quinella_box,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// DayReco collects the recommendations for one race day.
type DayReco struct {
	Date  string           `json:"date"`
	Races []Recommendation `json:"races"`
}
