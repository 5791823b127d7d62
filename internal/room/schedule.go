package room

import (
	"net/http"
	"sort"
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

var (
	ErrDuplicateWeekday = apperror.New(http.StatusBadRequest, apperror.KindValidation, "business hours contain a duplicate weekday")
	ErrInvalidWeekday   = apperror.New(http.StatusBadRequest, apperror.KindValidation, "weekday must be between 1 (Monday) and 7 (Sunday)")
	ErrInvalidWindow    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "opening hours must satisfy 0 <= open < close < 24")
)

const minutesPerDay = 24 * 60

// WeeklyWindow is a recurring open/close range for one ISO weekday
// (Monday = 1 .. Sunday = 7). Open and close are minutes from local midnight.
type WeeklyWindow struct {
	Weekday      int
	OpenMinutes  int
	CloseMinutes int
}

// WeekSchedule maps weekdays to their single opening window. Construction via
// NewWeekSchedule makes duplicate weekdays structurally impossible.
type WeekSchedule map[int]WeeklyWindow

// NewWeekSchedule validates the given windows and builds the weekday lookup.
// It rejects duplicate weekdays, weekdays outside 1..7 and windows that do not
// satisfy 0 <= open < close < 24h.
func NewWeekSchedule(windows []WeeklyWindow) (WeekSchedule, error) {
	schedule := make(WeekSchedule, len(windows))

	for _, w := range windows {
		if w.Weekday < 1 || w.Weekday > 7 {
			return nil, ErrInvalidWeekday
		}
		if w.OpenMinutes < 0 || w.CloseMinutes >= minutesPerDay || w.OpenMinutes >= w.CloseMinutes {
			return nil, ErrInvalidWindow
		}
		if _, exists := schedule[w.Weekday]; exists {
			return nil, ErrDuplicateWeekday
		}
		schedule[w.Weekday] = w
	}

	return schedule, nil
}

// Window returns the opening window for the given ISO weekday, or false when
// the room is closed that day.
func (s WeekSchedule) Window(weekday int) (WeeklyWindow, bool) {
	w, ok := s[weekday]
	return w, ok
}

// Windows returns the schedule as a slice ordered by weekday, for persistence
// and API output.
func (s WeekSchedule) Windows() []WeeklyWindow {
	windows := make([]WeeklyWindow, 0, len(s))
	for _, w := range s {
		windows = append(windows, w)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Weekday < windows[j].Weekday })
	return windows
}

// ISOWeekday converts a time to the ISO weekday numbering used by
// WeekSchedule (Monday = 1 .. Sunday = 7).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
