package helper_util

import "time"

// Timestamps are stored as RFC 3339 strings on Neo4j nodes and compared
// lexicographically in Cypher (endDate deadlines, createdAt ordering). That
// only works when every stored value shares one offset, so all formatting
// goes through here and normalizes to UTC first.

// FormatTime renders an instant for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimeNano renders an instant with sub-second precision, used where
// entries written in one pass must keep their relative order.
func FormatTimeNano(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime reads a stored timestamp back.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
