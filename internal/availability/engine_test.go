package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

type fakeCounter struct {
	count int
	err   error
}

func (f *fakeCounter) CountActiveAtSlot(_ context.Context, _ time.Time, _ types.TimeString) (int, error) {
	return f.count, f.err
}

type fakeFinder struct {
	cleaners []int64
	err      error
}

func (f *fakeFinder) FindAvailable(_ context.Context, _ time.Time, _ types.TimeString, _ int) ([]int64, error) {
	return f.cleaners, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testSlot() *domain.Slot {
	return &domain.Slot{
		Date:      time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		Band:      domain.BandMorning,
	}
}

func TestEngine_Reserve_Success(t *testing.T) {
	e := NewEngine(&fakeCounter{count: 0}, &fakeFinder{cleaners: []int64{7, 9}}, 1, nopLogger{})

	res, err := e.Reserve(context.Background(), testSlot(), 120)
	require.NoError(t, err)

	assert.Equal(t, 0, res.SpotsTaken)
	assert.Equal(t, 1, res.Capacity)
	assert.Equal(t, []int64{7, 9}, res.CandidateCleaners)
}

func TestEngine_Reserve_SlotFull(t *testing.T) {
	e := NewEngine(&fakeCounter{count: 1}, &fakeFinder{cleaners: []int64{7}}, 1, nopLogger{})

	_, err := e.Reserve(context.Background(), testSlot(), 120)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestEngine_Reserve_CapacityAboveOne(t *testing.T) {
	finder := &fakeFinder{cleaners: []int64{7}}

	// 2 из 3 мест заняты - резервация проходит
	e := NewEngine(&fakeCounter{count: 2}, finder, 3, nopLogger{})
	_, err := e.Reserve(context.Background(), testSlot(), 120)
	require.NoError(t, err)

	// 3 из 3 - отказ
	e = NewEngine(&fakeCounter{count: 3}, finder, 3, nopLogger{})
	_, err = e.Reserve(context.Background(), testSlot(), 120)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestEngine_Reserve_NoCleaner(t *testing.T) {
	e := NewEngine(&fakeCounter{count: 0}, &fakeFinder{cleaners: nil}, 1, nopLogger{})

	_, err := e.Reserve(context.Background(), testSlot(), 120)
	assert.ErrorIs(t, err, ErrNoCleanerAvailable)
}

// Ёмкость проверяется раньше доступности клинеров
func TestEngine_Reserve_CapacityCheckedFirst(t *testing.T) {
	e := NewEngine(&fakeCounter{count: 1}, &fakeFinder{cleaners: nil}, 1, nopLogger{})

	_, err := e.Reserve(context.Background(), testSlot(), 120)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestEngine_Reserve_StoreErrors(t *testing.T) {
	e := NewEngine(&fakeCounter{err: errors.New("connection reset")}, &fakeFinder{}, 1, nopLogger{})
	_, err := e.Reserve(context.Background(), testSlot(), 120)
	assert.ErrorIs(t, err, ErrInternal)

	e = NewEngine(&fakeCounter{count: 0}, &fakeFinder{err: errors.New("connection reset")}, 1, nopLogger{})
	_, err = e.Reserve(context.Background(), testSlot(), 120)
	assert.ErrorIs(t, err, ErrInternal)
}
