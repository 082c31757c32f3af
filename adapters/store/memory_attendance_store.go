package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
)

// MemoryAttendanceStore is an in-memory implementation of the AttendanceStore
// interface. At most one record exists per (user, date).
type MemoryAttendanceStore struct {
	byDay map[string]*core.AttendanceRecord
	mu    sync.RWMutex
}

// NewMemoryAttendanceStore creates a new in-memory attendance store
func NewMemoryAttendanceStore() *MemoryAttendanceStore {
	return &MemoryAttendanceStore{
		byDay: make(map[string]*core.AttendanceRecord),
	}
}

func dayKey(userID, date string) string {
	return userID + ":" + date
}

// RecordClockIn persists a new record for (user, date)
func (s *MemoryAttendanceStore) RecordClockIn(ctx context.Context, rec *core.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(rec.UserID, rec.Date.Format("2006-01-02"))
	if _, exists := s.byDay[key]; exists {
		return core.ErrAlreadyClockedIn
	}

	r := *rec
	s.byDay[key] = &r
	return nil
}

// GetForDay returns the record for (user, date)
func (s *MemoryAttendanceStore) GetForDay(ctx context.Context, userID string, date string) (*core.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byDay[dayKey(userID, date)]
	if !ok {
		return nil, core.ErrNotClockedIn
	}
	r := *rec
	return &r, nil
}

// Update persists changes to an existing record
func (s *MemoryAttendanceStore) Update(ctx context.Context, rec *core.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(rec.UserID, rec.Date.Format("2006-01-02"))
	if _, ok := s.byDay[key]; !ok {
		return core.ErrNotClockedIn
	}
	r := *rec
	s.byDay[key] = &r
	return nil
}

// Query returns records matching the filter, newest first
func (s *MemoryAttendanceStore) Query(ctx context.Context, filter core.AttendanceFilter) ([]*core.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*core.AttendanceRecord
	for _, rec := range s.byDay {
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		if !filter.From.IsZero() && rec.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && rec.Date.After(filter.To) {
			continue
		}
		r := *rec
		records = append(records, &r)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

var _ ports.AttendanceStore = (*MemoryAttendanceStore)(nil)
