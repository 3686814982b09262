package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct {
	t time.Time
}

func (f *fixedTime) Now() time.Time { return f.t }

type fakeCounts struct {
	counts map[types.TimeString]int
	err    error
}

func (f *fakeCounts) CountActiveByDate(context.Context, time.Time) (map[types.TimeString]int, error) {
	return f.counts, f.err
}

func testConfig() config.BookingConfig {
	return config.BookingConfig{
		MinLeadDays:            1,
		MaxLeadDays:            90,
		BusinessOpen:           "08:00",
		BusinessClose:          "20:00",
		SlotGranularityMinutes: 30,
		SlotCapacity:           2,
	}
}

func newUseCase(counts map[types.TimeString]int) *UseCase {
	uc := NewUseCase(&fakeCounts{counts: counts}, testConfig(), nopLogger{})
	uc.timeProvider = &fixedTime{t: time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)}
	return uc
}

func TestUseCase_Execute_FullDay(t *testing.T) {
	uc := newUseCase(nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-14"})
	require.NoError(t, err)

	// 08:00..19:30 с шагом 30 минут, время закрытия не включается
	require.Len(t, resp.Slots, 24)
	assert.Equal(t, types.TimeString("08:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("19:30"), resp.Slots[len(resp.Slots)-1].StartTime)

	for _, slot := range resp.Slots {
		assert.Equal(t, 2, slot.AvailableSpots)
		assert.Equal(t, 2, slot.TotalSpots)
	}

	assert.Equal(t, domain.BandMorning, resp.Slots[0].Band)
	assert.Equal(t, domain.BandAfternoon, resp.Slots[8].Band)  // 12:00
	assert.Equal(t, domain.BandEvening, resp.Slots[18].Band)   // 17:00
}

func TestUseCase_Execute_OccupiedSlots(t *testing.T) {
	uc := newUseCase(map[types.TimeString]int{
		"10:00": 1,
		"14:00": 2,
		"16:30": 5, // больше вместимости, счетчик не уходит в минус
	})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-14"})
	require.NoError(t, err)

	byStart := make(map[types.TimeString]Slot)
	for _, slot := range resp.Slots {
		byStart[slot.StartTime] = slot
	}

	assert.Equal(t, 1, byStart["10:00"].AvailableSpots)
	assert.Equal(t, 0, byStart["14:00"].AvailableSpots)
	assert.Equal(t, 0, byStart["16:30"].AvailableSpots)
	assert.Equal(t, 2, byStart["09:00"].AvailableSpots)
}

func TestUseCase_Execute_OutsideBookingWindow(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"today", "2025-06-11"},
		{"past", "2025-06-01"},
		{"beyond max lead", "2025-09-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(nil)

			resp, err := uc.Execute(context.Background(), &Request{Date: tt.date})
			require.NoError(t, err)
			assert.Empty(t, resp.Slots)
		})
	}
}

func TestUseCase_Execute_InvalidDate(t *testing.T) {
	uc := newUseCase(nil)

	_, err := uc.Execute(context.Background(), &Request{Date: "14-06-2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
