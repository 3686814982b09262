package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
)

func testConfig() config.BookingConfig {
	return config.BookingConfig{
		MinLeadDays:            1,
		MaxLeadDays:            90,
		BusinessOpen:           "08:00",
		BusinessClose:          "20:00",
		SlotGranularityMinutes: 30,
	}
}

func TestValidator_Validate(t *testing.T) {
	// Среда, 10:00 утра
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	v := NewValidator(testConfig())

	tests := []struct {
		name    string
		date    string
		time    string
		wantErr error
	}{
		{"valid next week", "2025-06-18", "10:00", nil},
		{"valid half hour", "2025-06-18", "10:30", nil},
		{"valid at opening", "2025-06-18", "08:00", nil},
		{"valid last slot", "2025-06-18", "19:30", nil},
		{"garbage date", "18-06-2025", "10:00", ErrMalformedInput},
		{"garbage time", "2025-06-18", "10am", ErrMalformedInput},
		{"today is too soon", "2025-06-11", "12:00", ErrTooSoon},
		{"tomorrow morning before lead time", "2025-06-12", "09:00", ErrTooSoon},
		{"91 days out", "2025-09-10", "10:00", ErrTooFar},
		{"before opening", "2025-06-18", "07:30", ErrOutsideBusinessHours},
		{"at closing, exclusive bound", "2025-06-18", "20:00", ErrOutsideBusinessHours},
		{"after closing", "2025-06-18", "21:00", ErrOutsideBusinessHours},
		{"quarter hour", "2025-06-18", "10:15", ErrInvalidGranularity},
		{"one minute off", "2025-06-18", "10:01", ErrInvalidGranularity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := v.Validate(tt.date, tt.time, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, slot)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, slot)
			assert.Equal(t, tt.time, slot.StartTime.String())
		})
	}
}

// Отказы применяются в порядке правил: кривой формат выигрывает у всего остального
func TestValidator_Validate_RuleOrder(t *testing.T) {
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	v := NewValidator(testConfig())

	// Время вне рабочих часов И не на границе слота -> рабочие часы первее
	_, err := v.Validate("2025-06-18", "21:15", now)
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)

	// Слишком рано И вне рабочих часов -> too soon первее
	_, err = v.Validate("2025-06-11", "21:00", now)
	assert.ErrorIs(t, err, ErrTooSoon)
}

func TestValidator_Validate_TimeBand(t *testing.T) {
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	v := NewValidator(testConfig())

	tests := []struct {
		time string
		band domain.TimeBand
	}{
		{"08:00", domain.BandMorning},
		{"11:30", domain.BandMorning},
		{"12:00", domain.BandAfternoon},
		{"16:30", domain.BandAfternoon},
		{"17:00", domain.BandEvening},
		{"19:30", domain.BandEvening},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			slot, err := v.Validate("2025-06-18", tt.time, now)
			require.NoError(t, err)
			assert.Equal(t, tt.band, slot.Band)
		})
	}
}

func TestValidator_Validate_InstantCombinesDateAndTime(t *testing.T) {
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	v := NewValidator(testConfig())

	slot, err := v.Validate("2025-06-18", "14:30", now)
	require.NoError(t, err)

	instant := slot.Instant()
	assert.Equal(t, time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC), instant)
}
