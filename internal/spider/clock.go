package spider

import "time"

// Clock supplies the current time. All time reads in the core go through it
// so the one-hour lookback and priority arithmetic are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
