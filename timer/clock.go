package timer

import "time"

// Clock is the time source the Registry reads on every directive.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads time.Now, which carries a monotonic reading.
var SystemClock Clock = ClockFunc(time.Now)
