package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		wantErr bool
	}{
		{"valid morning", "08:00", false},
		{"valid midnight", "00:00", false},
		{"valid end of day", "23:59", false},
		{"hour out of range", "24:00", true},
		{"minute out of range", "10:60", true},
		{"with seconds", "10:00:00", true},
		{"garbage", "morning", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2025, 6, 11, 9, 30, 45, 0, time.UTC)
	assert.Equal(t, TimeString("09:30"), NewTimeString(moment))
}

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("14:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("14:30"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_HourMinute(t *testing.T) {
	ts := TimeString("14:45")
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, 45, ts.Minute())
	assert.Equal(t, 14*60+45, ts.TotalMinutes())
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		start   TimeString
		minutes int
		want    TimeString
		wantErr error
	}{
		{"within hour", "10:00", 30, "10:30", nil},
		{"crosses hour", "10:45", 30, "11:15", nil},
		{"multi hour duration", "08:00", 180, "11:00", nil},
		{"negative shift", "10:00", -30, "09:30", nil},
		{"overflows day", "23:30", 60, "", ErrTimeOverflow},
		{"underflows day", "00:15", -30, "", ErrTimeOverflow},
		{"invalid base", "bad", 30, "", ErrInvalidTimeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.AddMinutes(tt.minutes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("17:00").IsAfter("12:00"))
	assert.False(t, TimeString("12:00").IsAfter("12:00"))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("nope").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит как time.Time
	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("10:30"), ts)

	// TEXT колонка
	require.NoError(t, ts.Scan("15:45"))
	assert.Equal(t, TimeString("15:45"), ts)

	// TIME как строка с секундами
	require.NoError(t, ts.Scan("09:00:00"))
	assert.Equal(t, TimeString("09:00"), ts)

	// []byte от драйвера
	require.NoError(t, ts.Scan([]byte("12:15")))
	assert.Equal(t, TimeString("12:15"), ts)

	// NULL
	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	// Неподдерживаемый тип
	assert.ErrorIs(t, ts.Scan(42), ErrInvalidTimeString)
}
