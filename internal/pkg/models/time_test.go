package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTrip(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	at := time.Date(2025, 3, 1, 16, 4, 5, 123456789, jakarta)

	raw := FormatTimestamp(at)
	assert.Equal(t, "2025-03-01T09:04:05.123456789Z", raw)

	got, err := ParseTimestamp(raw)
	require.NoError(t, err)
	assert.True(t, at.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2025-03-01T09:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), got)

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestNowIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Now().Location())
}
