package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeekSchedule(t *testing.T) {
	valid := WeeklyWindow{Weekday: 1, OpenMinutes: 9 * 60, CloseMinutes: 17 * 60}

	tests := []struct {
		name    string
		windows []WeeklyWindow
		wantErr error
	}{
		{"empty schedule is a closed room", nil, nil},
		{"single window", []WeeklyWindow{valid}, nil},
		{
			"full week",
			[]WeeklyWindow{
				{Weekday: 1, OpenMinutes: 540, CloseMinutes: 1020},
				{Weekday: 2, OpenMinutes: 540, CloseMinutes: 1020},
				{Weekday: 3, OpenMinutes: 540, CloseMinutes: 1020},
				{Weekday: 4, OpenMinutes: 540, CloseMinutes: 1020},
				{Weekday: 5, OpenMinutes: 540, CloseMinutes: 1020},
				{Weekday: 6, OpenMinutes: 600, CloseMinutes: 1380},
				{Weekday: 7, OpenMinutes: 600, CloseMinutes: 1380},
			},
			nil,
		},
		{"duplicate weekday", []WeeklyWindow{valid, valid}, ErrDuplicateWeekday},
		{"weekday zero", []WeeklyWindow{{Weekday: 0, OpenMinutes: 540, CloseMinutes: 1020}}, ErrInvalidWeekday},
		{"weekday eight", []WeeklyWindow{{Weekday: 8, OpenMinutes: 540, CloseMinutes: 1020}}, ErrInvalidWeekday},
		{"negative open", []WeeklyWindow{{Weekday: 1, OpenMinutes: -1, CloseMinutes: 600}}, ErrInvalidWindow},
		{"open equals close", []WeeklyWindow{{Weekday: 1, OpenMinutes: 600, CloseMinutes: 600}}, ErrInvalidWindow},
		{"open after close", []WeeklyWindow{{Weekday: 1, OpenMinutes: 700, CloseMinutes: 600}}, ErrInvalidWindow},
		{"close past midnight", []WeeklyWindow{{Weekday: 1, OpenMinutes: 600, CloseMinutes: 1440}}, ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := NewWeekSchedule(tt.windows)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, schedule, len(tt.windows))
		})
	}
}

func TestWeekScheduleWindow(t *testing.T) {
	schedule, err := NewWeekSchedule([]WeeklyWindow{
		{Weekday: 3, OpenMinutes: 540, CloseMinutes: 1020},
		{Weekday: 1, OpenMinutes: 600, CloseMinutes: 900},
	})
	require.NoError(t, err)

	w, open := schedule.Window(1)
	assert.True(t, open)
	assert.Equal(t, 600, w.OpenMinutes)

	_, open = schedule.Window(2)
	assert.False(t, open, "closed on Tuesdays")

	// Windows comes back ordered by weekday regardless of input order.
	windows := schedule.Windows()
	require.Len(t, windows, 2)
	assert.Equal(t, 1, windows[0].Weekday)
	assert.Equal(t, 3, windows[1].Weekday)
}

func TestISOWeekday(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-07 a Sunday.
	assert.Equal(t, 1, ISOWeekday(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, ISOWeekday(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, ISOWeekday(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)))
}
