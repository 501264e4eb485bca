// Package memory holds in-memory repository implementations. They back the
// service tests and any deployment that runs without postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
)

type MeetingRepo struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID]*domain.Meeting
}

func NewMeetingRepo() *MeetingRepo {
	return &MeetingRepo{meetings: make(map[uuid.UUID]*domain.Meeting)}
}

func (r *MeetingRepo) Create(_ context.Context, m *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneMeeting(m)
	r.meetings[m.ID] = cp
	return nil
}

func (r *MeetingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	return cloneMeeting(m), nil
}

func (r *MeetingRepo) List(_ context.Context, status *domain.MeetingStatus) ([]domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Meeting
	for _, m := range r.meetings {
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, *cloneMeeting(m))
	}
	return out, nil
}

func (r *MeetingRepo) ListLive(ctx context.Context) ([]domain.Meeting, error) {
	live := domain.StatusLive
	return r.List(ctx, &live)
}

func (r *MeetingRepo) Update(_ context.Context, m *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.meetings[m.ID]
	if !ok {
		return nil
	}
	stored.Title = m.Title
	stored.Type = m.Type
	stored.Date = m.Date
	stored.Time = m.Time
	stored.DurationMinutes = m.DurationMinutes
	stored.Location = m.Location
	stored.Agenda = append([]string(nil), m.Agenda...)
	stored.AttendeeIDs = append([]uuid.UUID(nil), m.AttendeeIDs...)
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *MeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.MeetingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meetings[id]; ok {
		m.Status = status
		m.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MeetingRepo) SetRecordingNotes(_ context.Context, id uuid.UUID, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meetings[id]; ok {
		m.RecordingNotes = &notes
		m.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MeetingRepo) SetMinutesDocument(_ context.Context, id uuid.UUID, minutes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meetings[id]; ok {
		m.MinutesDocument = &minutes
		m.UpdatedAt = time.Now()
	}
	return nil
}

func cloneMeeting(m *domain.Meeting) *domain.Meeting {
	cp := *m
	cp.Agenda = append([]string(nil), m.Agenda...)
	cp.AttendeeIDs = append([]uuid.UUID(nil), m.AttendeeIDs...)
	return &cp
}
