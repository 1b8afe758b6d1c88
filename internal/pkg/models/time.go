package models

import "time"

// Now is the tracker's clock. Timestamps are kept in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// FormatTimestamp renders t for storage, keeping sub-second precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp reads a stored timestamp. Values written without fractional
// seconds are accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
