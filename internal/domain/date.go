// Package domain date.go contains helpers for the calendar keys used by
// audio listings and daily readings.
package domain

import (
	"fmt"
	"time"
)

// DateKey formats calendar parts as the canonical YYYY-MM-DD key used for
// daily readings. Parts are not validated against a real calendar; callers
// pass whatever the client tagged the recording with.
func DateKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// NormalizeDateKey parses a client-supplied date string and returns it in
// canonical YYYY-MM-DD form. Accepts unpadded parts ("2025-1-7").
// Returns ErrInvalidDate if the string is not a date at all.
func NormalizeDateKey(s string) (string, error) {
	t, err := time.Parse("2006-1-2", s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format("2006-01-02"), nil
}
