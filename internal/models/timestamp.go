package models

import "time"

// TimestampLayout is RFC 3339 with a fixed-width fraction so that stored
// timestamps sort lexically in chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp. Rows written by older versions
// use plain RFC 3339, which is accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
