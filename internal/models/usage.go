package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageDateLayout is the calendar-date key format for daily usage rows.
// The accounting day is the UTC calendar date.
const UsageDateLayout = "2006-01-02"

// UsageDate returns the accounting-day key for a point in time.
func UsageDate(t time.Time) string {
	return t.UTC().Format(UsageDateLayout)
}

// DailyUsage is the per-user, per-day counter of successful dispatches.
// The count only ever grows; rows are created lazily on the first request
// of the day.
type DailyUsage struct {
	UserID        uuid.UUID `json:"user_id"`
	UsageDate     string    `json:"usage_date"`
	RequestCount  int       `json:"request_count"`
	LastRequestAt time.Time `json:"last_request_at"`
}
