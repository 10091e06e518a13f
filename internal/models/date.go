package models

import (
	"fmt"
	"time"
)

// YMD is a calendar date encoded as yyyymmdd. Historical rows carry dates in
// this form and the aggregator compares them numerically, so the encoding is
// kept all the way through instead of converting to time.Time per row.
type YMD int

// YMDFromTime converts a time.Time to a YMD in the time's location.
func YMDFromTime(t time.Time) YMD {
	return YMD(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// ParseYMD parses a yyyymmdd string.
func ParseYMD(s string) (YMD, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return YMDFromTime(t), nil
}

// ParseISODate parses a yyyy-mm-dd string.
func ParseISODate(s string) (YMD, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return YMDFromTime(t), nil
}

// Time returns the date at midnight UTC.
func (d YMD) Time() time.Time {
	return time.Date(d.Year(), time.Month(d.month()), d.day(), 0, 0, 0, 0, time.UTC)
}

// Year returns the four-digit year.
func (d YMD) Year() int { return int(d) / 10000 }

// MonthDay returns the mmdd part.
func (d YMD) MonthDay() int { return int(d) % 10000 }

func (d YMD) month() int { return (int(d) / 100) % 100 }
func (d YMD) day() int   { return int(d) % 100 }

// ISO returns the yyyy-mm-dd rendering.
func (d YMD) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.month(), d.day())
}

// String returns the yyyymmdd rendering.
func (d YMD) String() string {
	return fmt.Sprintf("%08d", int(d))
}

// AddYears shifts the date by whole years.
func (d YMD) AddYears(n int) YMD {
	return YMDFromTime(d.Time().AddDate(n, 0, 0))
}

// IsZero reports whether the date is unset.
func (d YMD) IsZero() bool { return d == 0 }
