package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MeetingStatus is the lifecycle tag of a meeting. Transitions only happen
// through Start and Complete; handlers never write the field directly.
type MeetingStatus string

const (
	StatusUpcoming  MeetingStatus = "upcoming"
	StatusLive      MeetingStatus = "live"
	StatusCompleted MeetingStatus = "completed"
)

type MeetingType string

const (
	TypeVirtual  MeetingType = "virtual"
	TypePhysical MeetingType = "physical"
	TypeHybrid   MeetingType = "hybrid"
	TypeInstant  MeetingType = "instant"
)

var ErrBadTransition = errors.New("invalid meeting status transition")

type Meeting struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Type            MeetingType   `json:"type"`
	Status          MeetingStatus `json:"status"`
	Date            string        `json:"date,omitempty"` // YYYY-MM-DD
	Time            string        `json:"time,omitempty"` // HH:MM
	DurationMinutes int           `json:"duration_minutes"`
	Location        *string       `json:"location,omitempty"`
	MeetingLink     *string       `json:"meeting_link,omitempty"`
	OrganizerID     uuid.UUID     `json:"organizer_id"`
	Agenda          []string      `json:"agenda"`
	AttendeeIDs     []uuid.UUID   `json:"attendee_ids"`

	RecordingEnabled bool `json:"recording_enabled"`
	AIMinutesEnabled bool `json:"ai_minutes_enabled"`

	RecordingNotes  *string `json:"recording_notes,omitempty"`
	MinutesDocument *string `json:"minutes_document,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Start moves the meeting to live. Only an upcoming meeting can go live.
func (m *Meeting) Start() error {
	if m.Status != StatusUpcoming {
		return ErrBadTransition
	}
	m.Status = StatusLive
	return nil
}

// Complete moves the meeting to completed. Only a live meeting can complete.
func (m *Meeting) Complete() error {
	if m.Status != StatusLive {
		return ErrBadTransition
	}
	m.Status = StatusCompleted
	return nil
}

// Editable reports whether scheduling fields (title, date, time, agenda,
// attendees) may still change. Once a meeting leaves upcoming they freeze;
// only RecordingNotes (while live) and MinutesDocument (after completion)
// remain writable.
func (m *Meeting) Editable() bool {
	return m.Status == StatusUpcoming
}

// HasAttendee checks invited membership.
func (m *Meeting) HasAttendee(memberID uuid.UUID) bool {
	for _, id := range m.AttendeeIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
