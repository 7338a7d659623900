package passes

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp means the input is negative or past the largest
// calendar date the formatter can render.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// maxTimestamp is 9999-12-31T23:59:59Z, the last instant the four-digit
// year layout can represent.
const maxTimestamp = 253402300799

// FormatTimestampIn converts seconds since 1970-01-01T00:00:00 UTC into a
// calendar date (YYYY-MM-DD) and a 24-hour clock time (HH:MM:SS), both
// rendered in loc.
func FormatTimestampIn(ts int64, loc *time.Location) (date, clock string, err error) {
	if ts < 0 || ts > maxTimestamp {
		return "", "", fmt.Errorf("timestamp %d: %w", ts, ErrInvalidTimestamp)
	}
	t := time.Unix(ts, 0).In(loc)
	return t.Format("2006-01-02"), t.Format("15:04:05"), nil
}

// FormatTimestamp renders in the local timezone. Output depends on the
// executing machine's zone database; pass an explicit location to
// FormatTimestampIn for reproducible output.
func FormatTimestamp(ts int64) (string, string, error) {
	return FormatTimestampIn(ts, time.Local)
}
