package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrUnknownPattern   = errors.New("unknown wager pattern")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidRaceKey   = errors.New("invalid race key")
)
