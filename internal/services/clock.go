package services

import "time"

// Clock is injected so tests can pin timestamps.
type Clock func() time.Time

// SystemClock returns UTC wall time at the store's microsecond resolution.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// nextStamp is never earlier than now and always strictly after prev.
func nextStamp(now, prev time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	floor := prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	if now.Before(floor) {
		return floor
	}
	return now
}
