// Package dateutil parses release dates and formats edX start timestamps.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date handling.
var (
	ErrInvalidDateFormat  = errors.New("invalid date format")
	ErrInvalidReleaseDate = errors.New("invalid release date")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultReleaseDateFormat matches dates such as "3 Sep 2018".
const DefaultReleaseDateFormat = "D MMM YYYY"

// StartLayout is the timestamp layout of the OLX start attribute.
const StartLayout = "2006-01-02T15:04:05Z"

// DefaultStartHour is the hour of day (UTC) a section opens.
const DefaultStartHour = 10

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// ParseDateFormat converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D)
// to a Go layout. Text in brackets is copied literally; any other
// character is preserved.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				layout.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			layout.WriteByte(format[i])
			i++
		}
	}

	return layout.String(), nil
}

// ParseReleaseDate parses a human release date using a token format
// (empty means DefaultReleaseDateFormat). The result is a UTC midnight.
func ParseReleaseDate(value, format string) (time.Time, error) {
	if format == "" {
		format = DefaultReleaseDateFormat
	}
	layout, err := ParseDateFormat(format)
	if err != nil {
		return time.Time{}, err
	}

	t, err := time.ParseInLocation(layout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %q", ErrInvalidReleaseDate, value, format)
	}
	return t, nil
}

// StartTime returns the release instant for a release date: the date at
// hour:00 UTC, shifted by addDays.
func StartTime(date time.Time, hour, addDays int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC).AddDate(0, 0, addDays)
}

// FormatStart formats t as a course start attribute.
func FormatStart(t time.Time) string {
	return t.UTC().Format(StartLayout)
}
