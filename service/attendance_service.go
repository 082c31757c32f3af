package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
	"github.com/shopspring/decimal"
)

const dayFormat = "2006-01-02"

// AttendanceService records clock-ins and clock-outs, one record per user per
// calendar day.
type AttendanceService struct {
	records ports.AttendanceStore
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(records ports.AttendanceStore) *AttendanceService {
	return &AttendanceService{records: records}
}

// ClockIn opens today's attendance record for the user
func (s *AttendanceService) ClockIn(ctx context.Context, userID string) (*core.AttendanceRecord, error) {
	now := time.Now().UTC()
	rec := &core.AttendanceRecord{
		ID:      uuid.New().String(),
		UserID:  userID,
		Date:    now.Truncate(24 * time.Hour),
		ClockIn: now,
	}

	if err := s.records.RecordClockIn(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ClockOut closes today's record and computes the total hours worked
func (s *AttendanceService) ClockOut(ctx context.Context, userID string) (*core.AttendanceRecord, error) {
	now := time.Now().UTC()

	rec, err := s.records.GetForDay(ctx, userID, now.Format(dayFormat))
	if err != nil {
		return nil, err
	}
	if rec.ClockOut != nil {
		return nil, core.ErrAlreadyClockedOut
	}

	rec.ClockOut = &now
	rec.TotalHours = decimal.NewFromFloat(now.Sub(rec.ClockIn).Hours()).Round(2)

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return rec, nil
}

// Query returns attendance records matching the filter
func (s *AttendanceService) Query(ctx context.Context, filter core.AttendanceFilter) ([]*core.AttendanceRecord, error) {
	return s.records.Query(ctx, filter)
}
