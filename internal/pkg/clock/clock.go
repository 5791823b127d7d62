package clock

import "time"

// Clock abstracts time.Now so availability and booking cutoffs can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the wall clock. Times are returned in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock frozen at a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}
