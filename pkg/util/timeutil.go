package util

import "time"

// NowUTC returns the current wall clock time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}
