// Package service wires the pace pipelines together: card augmentation,
// combination backtests and recommendation builds.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/datasource"
	"github.com/yourusername/pace-bias/internal/metrics"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/pace"
	"github.com/yourusername/pace-bias/internal/repository"
)

// CardService augments race-day cards with pace classifications and scores.
type CardService struct {
	source  datasource.DaySource
	store   *datasource.LocalDirSource
	history repository.HistoryRepository
	logger  *logrus.Logger
}

// NewCardService creates a new card augmentation service.
func NewCardService(
	source datasource.DaySource,
	store *datasource.LocalDirSource,
	history repository.HistoryRepository,
	logger *logrus.Logger,
) *CardService {
	return &CardService{
		source:  source,
		store:   store,
		history: history,
		logger:  logger,
	}
}

// augmentable reports whether a race takes part in the pace pipeline.
// Obstacle races never do; Niigata's straight-course turf 1000 m has no
// corners, so passage-based classification is meaningless there.
func augmentable(meeting *models.Meeting, race *models.RaceCard) bool {
	if race.Surface() == models.SurfaceObstacle {
		return false
	}
	if meeting.VenueCode() == "04" && race.Ground == "芝" && race.DistanceM == 1000 {
		return false
	}
	return true
}

// AugmentDay loads the card document for a day, fills the pace fields on
// every eligible race and persists the augmented document back to the local
// store. Histories are cut off at the card date, so the augmentation never
// sees same-day results.
func (s *CardService) AugmentDay(ctx context.Context, date models.YMD) (*models.RaceDay, error) {
	day, err := s.source.FetchDay(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day card %s: %w", date.ISO(), err)
	}

	ids := collectIDs(day)
	passages := map[string][]string{}
	if len(ids) > 0 {
		passages, err = s.history.PassagesBefore(ctx, ids, date)
		if err != nil {
			return nil, fmt.Errorf("history lookup for %s failed: %w", date.ISO(), err)
		}
		metrics.RecordHistoryLookup()
	}

	augmented := 0
	for mi := range day.Meetings {
		meeting := &day.Meetings[mi]
		for ri := range meeting.Races {
			race := &meeting.Races[ri]
			if !augmentable(meeting, race) {
				continue
			}
			s.augmentRace(race, passages)
			augmented++
			metrics.RecordCardAugmented()
		}
	}

	if err := s.store.StoreDay(day); err != nil {
		return nil, fmt.Errorf("failed to persist augmented day %s: %w", date.ISO(), err)
	}

	s.logger.WithFields(logrus.Fields{
		"date":     date.ISO(),
		"meetings": len(day.Meetings),
		"races":    augmented,
	}).Info("day card augmented")

	return day, nil
}

func (s *CardService) augmentRace(race *models.RaceCard, passages map[string][]string) {
	anyHistory := false
	tags := make([]pace.StyleTag, len(race.Horses))
	for i := range race.Horses {
		horse := &race.Horses[i]
		past := passages[horse.Ketto]
		if len(past) > 0 {
			anyHistory = true
		}
		tags[i] = pace.Classify(past)
		horse.PaceType = tags[i].Letters()
	}

	score := pace.ScoreRace(tags, anyHistory)
	race.PaceScore = &score.Score
	if score.Notable {
		race.PaceMark = "★"
	} else {
		race.PaceMark = ""
	}
}

// collectIDs gathers the registration numbers of every horse on an eligible
// race, deduplicated.
func collectIDs(day *models.RaceDay) []string {
	seen := map[string]bool{}
	var ids []string
	for mi := range day.Meetings {
		meeting := &day.Meetings[mi]
		for ri := range meeting.Races {
			race := &meeting.Races[ri]
			if !augmentable(meeting, race) {
				continue
			}
			for _, h := range race.Horses {
				if h.Ketto == "" || seen[h.Ketto] {
					continue
				}
				seen[h.Ketto] = true
				ids = append(ids, h.Ketto)
			}
		}
	}
	return ids
}

// BiasReport renders the human-readable day report: every race carrying the
// display mark, with its tagged horses grouped by style.
func BiasReport(day *models.RaceDay) string {
	var b strings.Builder
	b.WriteString(day.Date + " 展開バイアス\n")
	b.WriteString(strings.Repeat("=", len(day.Date)+14) + "\n")

	notable := 0
	for mi := range day.Meetings {
		meeting := &day.Meetings[mi]
		for ri := range meeting.Races {
			race := &meeting.Races[ri]
			if !race.Notable() {
				continue
			}
			notable++
			score := ""
			if race.PaceScore != nil {
				score = strconv.FormatFloat(*race.PaceScore, 'f', -1, 64)
			}
			fmt.Fprintf(&b, "\n◆ %s %dR %s (%s%dm) 展開スコア %s\n",
				meeting.Track, race.No, race.Name, race.Ground, race.DistanceM, score)
			for _, letter := range []string{"A", "B", "C"} {
				var entries []string
				for _, h := range race.Horses {
					if h.HasType(letter) {
						entries = append(entries, fmt.Sprintf("%d %s", h.Num, h.Name))
					}
				}
				if len(entries) > 0 {
					fmt.Fprintf(&b, "  %s: %s\n", letter, strings.Join(entries, ", "))
				}
			}
		}
	}

	if notable == 0 {
		b.WriteString("\n注目レースはありません\n")
	}
	return b.String()
}

// WriteBiasReport writes the day's bias report next to the card documents
// and returns its path.
func (s *CardService) WriteBiasReport(day *models.RaceDay) (string, error) {
	path := filepath.Join(s.store.Dir(), "bias-"+day.Date+".txt")
	if err := os.MkdirAll(s.store.Dir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(BiasReport(day)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write bias report: %w", err)
	}
	return path, nil
}
