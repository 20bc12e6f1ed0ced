package models

import "time"

// ResponseCurrentTime returns the current time in epoch milliseconds, the
// unit every response envelope reports.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}
