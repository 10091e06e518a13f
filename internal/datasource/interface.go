// Package datasource fetches published race-day card documents, either from
// the local data directory or over HTTP from the card publisher.
package datasource

import (
	"context"

	"github.com/yourusername/pace-bias/internal/models"
)

// DaySource defines the interface for fetching race-day cards
type DaySource interface {
	// FetchDay retrieves the card document for one calendar day
	FetchDay(ctx context.Context, date models.YMD) (*models.RaceDay, error)

	// Name returns the name of the data source
	Name() string
}

// SourceError represents errors from day source operations
type SourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error { return e.Err }

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewSourceError creates a new day source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
