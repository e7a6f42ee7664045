package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSlotTimeRoundTripsLocalWallTime(t *testing.T) {
	at := time.Date(2026, 9, 2, 13, 0, 0, 0, time.Local)

	parsed, err := ParseSlotTime(at.Format(SlotTimeLayout))
	require.NoError(t, err)
	// the parsed instant must match the schedule's, not a UTC reading of
	// the same wall time
	require.True(t, parsed.Equal(at))
}

func TestParseSlotTimeRejectsGarbage(t *testing.T) {
	_, err := ParseSlotTime("завтра днём")
	require.Error(t, err)
}

func TestIsDateOnly(t *testing.T) {
	require.True(t, IsDateOnly("2026-09-02 00:00"))
	require.False(t, IsDateOnly("2026-09-02 14:00"))
	require.False(t, IsDateOnly("not a time"))
}
