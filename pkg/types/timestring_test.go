package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid time", input: "09:15", want: "09:15"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "end of day", input: "23:59", want: "23:59"},
		{name: "normalizes short form", input: "9:05", want: "09:05"},
		{name: "rejects out of range hour", input: "24:00", wantErr: true},
		{name: "rejects out of range minute", input: "10:60", wantErr: true},
		{name: "rejects garbage", input: "abc", wantErr: true},
		{name: "rejects empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		ts      TimeString
		minutes int
		want    TimeString
		wantErr bool
	}{
		{name: "simple add", ts: "10:00", minutes: 30, want: "10:30"},
		{name: "crosses hour", ts: "10:45", minutes: 30, want: "11:15"},
		{name: "negative shift", ts: "10:00", minutes: -15, want: "09:45"},
		{name: "exact end of day is out of range", ts: "23:30", minutes: 30, wantErr: true},
		{name: "crosses midnight", ts: "23:50", minutes: 30, wantErr: true},
		{name: "below midnight", ts: "00:10", minutes: -20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ts.AddMinutes(tt.minutes)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_At(t *testing.T) {
	date := time.Date(2026, 9, 1, 17, 42, 13, 500, time.UTC)

	got, err := TimeString("09:30").At(date)
	require.NoError(t, err)

	// Время дня берется из TimeString, дата - из аргумента
	assert.Equal(t, time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC), got)

	_, err = TimeString("bad").At(date)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("10:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("14:30"))
	assert.Equal(t, TimeString("14:30"), ts)

	// Postgres TIME приходит с секундами
	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
