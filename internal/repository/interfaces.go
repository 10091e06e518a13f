package repository

import (
	"context"

	"github.com/yourusername/pace-bias/internal/models"
)

// HistoryRepository defines access to prior-race passage history.
type HistoryRepository interface {
	// PassagesBefore returns up to three passage strings per horse, newest
	// first, from races run strictly before cutoff. Horses without usable
	// history are simply absent from the map.
	PassagesBefore(ctx context.Context, horseIDs []string, cutoff models.YMD) (map[string][]string, error)
}

// ResultRepository defines access to historical race results.
type ResultRepository interface {
	// GetByDateRange returns confirmed result rows for [from, to], sorted by
	// (date, venue, race, betting number) so races form contiguous groups.
	GetByDateRange(ctx context.Context, from, to models.YMD) ([]models.ResultRow, error)
}

// PayoutRepository defines access to official payout records.
type PayoutRepository interface {
	GetByDateRange(ctx context.Context, from, to models.YMD) (map[models.RaceKey]*models.PayoutRecord, error)
}
