package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// legacyTimestampLayout is the "2025-01-02 10:11:12.345678" form found in older
// saves. Fractional seconds are optional when parsing.
const legacyTimestampLayout = "2006-01-02 15:04:05"

// Timestamp is the time a choice was made. It reads RFC 3339 as well as the
// legacy layout; any other text is kept verbatim so a save still round-trips.
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp reads s leniently. It never fails: unreadable text yields a zero
// time that remembers the original string.
func ParseTimestamp(s string) Timestamp {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t}
	}
	// Legacy saves carry local time without a zone
	if t, err := time.ParseInLocation(legacyTimestampLayout, s, time.Local); err == nil {
		return Timestamp{Time: t}
	}
	return Timestamp{raw: s}
}

// String returns the original text for unreadable timestamps
func (ts Timestamp) String() string {
	if ts.raw != "" {
		return ts.raw
	}
	return ts.Time.String()
}

// MarshalJSON writes RFC 3339, or the original text when it could not be parsed
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.raw != "" {
		return json.Marshal(ts.raw)
	}
	return ts.Time.MarshalJSON()
}

// UnmarshalJSON accepts a string in any form ParseTimestamp understands, or null
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	*ts = ParseTimestamp(s)
	return nil
}
