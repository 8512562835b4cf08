package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	// Test case 1: RFC 3339
	ts := ParseTimestamp("2025-01-02T10:11:12.5Z")
	assert.True(t, time.Date(2025, 1, 2, 10, 11, 12, 500000000, time.UTC).Equal(ts.Time))

	// Test case 2: Legacy layout with and without fractional seconds
	ts = ParseTimestamp("2025-01-02 10:11:12.345678")
	assert.True(t, time.Date(2025, 1, 2, 10, 11, 12, 345678000, time.Local).Equal(ts.Time))

	ts = ParseTimestamp("2025-01-02 10:11:12")
	assert.True(t, time.Date(2025, 1, 2, 10, 11, 12, 0, time.Local).Equal(ts.Time))

	// Test case 3: Anything else keeps its text
	ts = ParseTimestamp("sometime")
	assert.True(t, ts.IsZero())
	assert.Equal(t, "sometime", ts.String())
}

func TestChoiceRecordJSON(t *testing.T) {
	// Setup
	when := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	record := ChoiceRecord{State: "start", ChoiceID: "chapter1_trapped", ChoiceText: "Look", Timestamp: NewTimestamp(when)}

	// Test case 1: Parsed timestamps are written as RFC 3339
	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2025-03-04T05:06:07Z"`)

	var decoded ChoiceRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, when.Equal(decoded.Timestamp.Time))

	// Test case 2: null and non-strings
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": null}`), &decoded))
	assert.True(t, decoded.Timestamp.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`{"timestamp": 12}`), &decoded))
}

func TestCharacterProfileAvailableDefault(t *testing.T) {
	var profile CharacterProfile

	// Test case 1: Missing key defaults to available
	require.NoError(t, json.Unmarshal([]byte(`{"character_id": "main_self", "trust_level": 1}`), &profile))
	assert.True(t, profile.Available)
	assert.Equal(t, 1, profile.TrustLevel)

	// Test case 2: Explicit false is kept
	profile = CharacterProfile{}
	require.NoError(t, json.Unmarshal([]byte(`{"character_id": "main_self", "available": false}`), &profile))
	assert.False(t, profile.Available)
}
