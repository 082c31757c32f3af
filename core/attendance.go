package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceRecord is one user's attendance for one calendar day.
// At most one record exists per (user, date).
type AttendanceRecord struct {
	ID         string          // UUID string
	UserID     string          // Owning user
	Date       time.Time       // Calendar day, truncated to midnight UTC
	ClockIn    time.Time       // When the user clocked in
	ClockOut   *time.Time      // Nil until the user clocks out
	TotalHours decimal.Decimal // Hours between clock-in and clock-out, 2dp
}

// AttendanceFilter selects attendance records for a query.
// Zero fields are ignored.
type AttendanceFilter struct {
	UserID string
	From   time.Time
	To     time.Time
}
