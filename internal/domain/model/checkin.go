package model

import (
	"time"
)

// CheckIn records that a user attended the gym on a calendar day. Date is
// normalized to midnight; at most one row exists per (user, day), enforced by
// a compound unique index in the store. WorkoutTime is an opaque self-reported
// label like "07:30 AM", never parsed.
type CheckIn struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	WorkoutTime *string   `json:"time,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UserName    string    `json:"user_name,omitempty"` // Joined for display
}

// Midnight truncates t to its calendar day in the server's location. The day
// boundary is whatever the server clock considers midnight; no timezone
// conversion is done per user.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthWindow returns the inclusive [first day, last day] of month/year.
func MonthWindow(month, year int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	return first, last
}
