package services

import (
	"context"
	"time"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/db"
)

// mockStore implements db.ShiftStore for tests
type mockStore struct {
	shifts map[string]*model.Shift

	insertErr error
	listErr   error
	reviewErr error

	inserted []*model.Shift
}

func newMockStore() *mockStore {
	return &mockStore{shifts: make(map[string]*model.Shift)}
}

func (m *mockStore) add(shift model.Shift) {
	s := shift
	m.shifts[s.ID] = &s
}

func (m *mockStore) InsertShift(ctx context.Context, shift *model.Shift) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.add(*shift)
	m.inserted = append(m.inserted, shift)
	return nil
}

func (m *mockStore) GetShift(ctx context.Context, id string) (*model.Shift, error) {
	shift, ok := m.shifts[id]
	if !ok {
		return nil, nil
	}
	s := *shift
	return &s, nil
}

func (m *mockStore) ListShifts(ctx context.Context, filter db.ShiftFilter) ([]model.Shift, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Shift
	for _, shift := range m.shifts {
		if filter.Status != "" && shift.Status != filter.Status {
			continue
		}
		if filter.DriverID != "" && shift.DriverID != filter.DriverID {
			continue
		}
		if filter.FromDate != "" && shift.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && shift.Date > filter.ToDate {
			continue
		}
		result = append(result, *shift)
	}
	return result, nil
}

func (m *mockStore) HasShiftForDate(ctx context.Context, driverID, date string) (bool, error) {
	if m.listErr != nil {
		return false, m.listErr
	}
	for _, shift := range m.shifts {
		if shift.DriverID == driverID && shift.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) ReviewShift(ctx context.Context, id, reviewedBy, reviewNotes string, reviewedAt time.Time) (bool, error) {
	if m.reviewErr != nil {
		return false, m.reviewErr
	}
	shift, ok := m.shifts[id]
	if !ok || shift.Status != model.StatusPending {
		return false, nil
	}
	shift.Status = model.StatusReviewed
	shift.ReviewedBy = reviewedBy
	shift.ReviewNotes = reviewNotes
	at := reviewedAt
	shift.ReviewedAt = &at
	return true, nil
}

func (m *mockStore) SweepPending(ctx context.Context, beforeDate, reviewedBy string, reviewedAt time.Time) ([]db.SweptShift, error) {
	var swept []db.SweptShift
	for _, shift := range m.shifts {
		if shift.Status != model.StatusPending || shift.Date >= beforeDate {
			continue
		}
		shift.Status = model.StatusUnreviewed
		shift.ReviewedBy = reviewedBy
		at := reviewedAt
		shift.ReviewedAt = &at
		swept = append(swept, db.SweptShift{ID: shift.ID, DriverID: shift.DriverID})
	}
	return swept, nil
}

func (m *mockStore) LatestTerminalShift(ctx context.Context, driverID string) (*model.Shift, error) {
	var latest *model.Shift
	for _, shift := range m.shifts {
		if shift.DriverID != driverID || !shift.Status.IsTerminal() {
			continue
		}
		if latest == nil || shift.Date > latest.Date {
			latest = shift
		}
	}
	if latest == nil {
		return nil, nil
	}
	s := *latest
	return &s, nil
}

// mockNotifier records published status events
type mockNotifier struct {
	events []model.StatusChangedEvent
	err    error
}

func (m *mockNotifier) ShiftStatusChanged(ctx context.Context, event model.StatusChangedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// mockMailer records sent report emails
type mockMailer struct {
	to       string
	subject  string
	filename string
	mimeType string
	content  []byte
	err      error
}

func (m *mockMailer) SendEmailWithAttachment(to, subject, body, filename, mimeType string, content []byte) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.subject = subject
	m.filename = filename
	m.mimeType = mimeType
	m.content = content
	return nil
}

// memoryMirror is an in-memory cache.Store
type memoryMirror struct {
	entries map[string]string
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{entries: make(map[string]string)}
}

func (m *memoryMirror) Get(key string) (string, bool, error) {
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *memoryMirror) Set(key, value string) error {
	m.entries[key] = value
	return nil
}

func (m *memoryMirror) Remove(key string) error {
	delete(m.entries, key)
	return nil
}
