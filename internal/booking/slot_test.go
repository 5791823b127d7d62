package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

func TestGenerateSlots(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // a Monday
	window := room.WeeklyWindow{Weekday: 1, OpenMinutes: 9 * 60, CloseMinutes: 17 * 60}

	t.Run("full day of hour slots", func(t *testing.T) {
		slots := GenerateSlots(day, window, 60, time.UTC)
		require.Len(t, slots, 8)

		assert.Equal(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), slots[0].Start)
		assert.Equal(t, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), slots[0].End)
		assert.Equal(t, time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC), slots[7].Start)
		assert.Equal(t, time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC), slots[7].End)

		for i := 1; i < len(slots); i++ {
			assert.Equal(t, slots[i-1].End, slots[i].Start, "slots must be contiguous")
		}
	})

	t.Run("trailing partial slot is discarded", func(t *testing.T) {
		// [9:00, 17:00) with 90-minute slots: the 16:30 remainder is dropped.
		slots := GenerateSlots(day, window, 90, time.UTC)
		require.Len(t, slots, 5)
		assert.Equal(t, time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC), slots[4].Start)
		assert.Equal(t, time.Date(2024, 3, 4, 16, 30, 0, 0, time.UTC), slots[4].End)
	})

	t.Run("slots are localized then normalized to UTC", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		localDay := time.Date(2024, 3, 4, 0, 0, 0, 0, loc)
		slots := GenerateSlots(localDay, window, 60, loc)
		require.Len(t, slots, 8)

		// 09:00 EST is 14:00 UTC.
		assert.Equal(t, time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC), slots[0].Start)
		assert.Equal(t, time.UTC, slots[0].Start.Location())
	})

	t.Run("non-positive interval yields nothing", func(t *testing.T) {
		assert.Nil(t, GenerateSlots(day, window, 0, time.UTC))
		assert.Nil(t, GenerateSlots(day, window, -30, time.UTC))
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	slot := TimeSlot{Start: base, End: base.Add(time.Hour)}

	assert.True(t, slot.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.True(t, slot.Overlaps(base.Add(-30*time.Minute), base.Add(30*time.Minute)))

	// Touching endpoints do not overlap: intervals are half-open.
	assert.False(t, slot.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.False(t, slot.Overlaps(base.Add(-time.Hour), base))
}

func TestOverlapIndex(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2024, 3, 4, h, 0, 0, 0, time.UTC)
	}
	booked := func(startH, endH int) *Booking {
		return &Booking{StartTime: at(startH), EndTime: at(endH), Status: StatusAccepted}
	}

	t.Run("empty index never conflicts", func(t *testing.T) {
		idx := NewOverlapIndex(nil)
		assert.False(t, idx.Conflicts(TimeSlot{Start: at(9), End: at(10)}))
	})

	t.Run("unsorted overlapping input", func(t *testing.T) {
		idx := NewOverlapIndex([]*Booking{
			booked(14, 16),
			booked(9, 12),
			booked(10, 15),
		})

		assert.True(t, idx.Conflicts(TimeSlot{Start: at(11), End: at(12)}))
		assert.True(t, idx.Conflicts(TimeSlot{Start: at(13), End: at(14)}), "covered by the long 10-15 interval")
		assert.True(t, idx.Conflicts(TimeSlot{Start: at(15), End: at(17)}))
		assert.False(t, idx.Conflicts(TimeSlot{Start: at(16), End: at(18)}))
		assert.False(t, idx.Conflicts(TimeSlot{Start: at(8), End: at(9)}))
	})

	t.Run("adjacent slot is free", func(t *testing.T) {
		idx := NewOverlapIndex([]*Booking{booked(10, 11)})
		assert.False(t, idx.Conflicts(TimeSlot{Start: at(11), End: at(12)}))
		assert.False(t, idx.Conflicts(TimeSlot{Start: at(9), End: at(10)}))
	})
}
