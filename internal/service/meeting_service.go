package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/permission"
	"github.com/kamwana/chamameet/internal/repository"
	"github.com/kamwana/chamameet/pkg/validator"
)

var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrInvalidState     = errors.New("meeting is not in the required state")
	ErrNotOrganizer     = errors.New("only the organizer can perform this action")
	ErrCapabilityDenied = errors.New("capability not enabled or permission denied")
)

// Notifier pushes meeting lifecycle events to connected clients. Implemented
// by the ws hub; nil disables push.
type Notifier interface {
	NotifyMeetingLive(meeting *domain.Meeting)
	NotifyMeetingEnded(meetingID uuid.UUID)
	NotifyRecordingStarted(meetingID uuid.UUID)
	NotifyRecordingStopped(meetingID uuid.UUID)
	NotifyMinutesReady(meetingID uuid.UUID)
}

type MeetingService struct {
	meetingRepo repository.MeetingRepository
	sessions    *SessionService
	notifier    Notifier
}

func NewMeetingService(meetingRepo repository.MeetingRepository, sessions *SessionService, notifier Notifier) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
		sessions:    sessions,
		notifier:    notifier,
	}
}

type CreateMeetingInput struct {
	Title            string      `json:"title"`
	Type             string      `json:"type"`
	Date             string      `json:"date"`
	Time             string      `json:"time"`
	DurationMinutes  int         `json:"duration_minutes"`
	Location         string      `json:"location"`
	Agenda           []string    `json:"agenda"`
	AttendeeIDs      []uuid.UUID `json:"attendee_ids"`
	RecordingEnabled bool        `json:"recording_enabled"`
	AIMinutesEnabled bool        `json:"ai_minutes_enabled"`
	IsInstant        bool        `json:"is_instant"`
}

type UpdateMeetingInput struct {
	Title           *string  `json:"title"`
	Date            *string  `json:"date"`
	Time            *string  `json:"time"`
	DurationMinutes *int     `json:"duration_minutes"`
	Location        *string  `json:"location"`
	Agenda          []string `json:"agenda"`
}

// MeetingLink derives the virtual room URL for a meeting id. The mapping is
// pure so the same id always yields the same link.
func MeetingLink(id uuid.UUID) string {
	return fmt.Sprintf("https://meet.chamameet.app/room/%s", id)
}

// Create validates and stores a new meeting. Instant meetings enter live
// immediately and a session is opened for the creator.
func (s *MeetingService) Create(ctx context.Context, organizerID uuid.UUID, role string, input CreateMeetingInput) (*domain.Meeting, error) {
	if !permission.Can(role, permission.ActionCreateMeeting) {
		return nil, ErrCapabilityDenied
	}

	if errs := validator.ValidateMeeting(input.Title, input.Type, input.Date, input.Time, input.DurationMinutes, input.IsInstant); errs.HasErrors() {
		return nil, errs
	}

	mtype := domain.MeetingType(input.Type)
	if input.IsInstant {
		mtype = domain.TypeInstant
	} else if mtype == "" {
		mtype = domain.TypeVirtual
	}

	status := domain.StatusUpcoming
	if input.IsInstant {
		status = domain.StatusLive
	}

	duration := input.DurationMinutes
	if input.IsInstant && duration == 0 {
		duration = 60
	}

	var location *string
	if input.Location != "" {
		location = &input.Location
	}

	now := time.Now()
	m := &domain.Meeting{
		ID:               uuid.New(),
		Title:            input.Title,
		Type:             mtype,
		Status:           status,
		Date:             input.Date,
		Time:             input.Time,
		DurationMinutes:  duration,
		Location:         location,
		OrganizerID:      organizerID,
		Agenda:           append([]string(nil), input.Agenda...),
		AttendeeIDs:      append([]uuid.UUID(nil), input.AttendeeIDs...),
		RecordingEnabled: input.RecordingEnabled,
		AIMinutesEnabled: input.AIMinutesEnabled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if mtype != domain.TypePhysical {
		link := MeetingLink(m.ID)
		m.MeetingLink = &link
	}

	if err := s.meetingRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating meeting: %w", err)
	}

	if input.IsInstant {
		if s.notifier != nil {
			s.notifier.NotifyMeetingLive(m)
		}
		if s.sessions != nil {
			if _, err := s.sessions.Join(ctx, m.ID, organizerID); err != nil {
				return nil, fmt.Errorf("opening instant session: %w", err)
			}
		}
	}

	return m, nil
}

func (s *MeetingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	m, err := s.meetingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMeetingNotFound
	}
	return m, nil
}

func (s *MeetingService) List(ctx context.Context, status *domain.MeetingStatus) ([]domain.Meeting, error) {
	return s.meetingRepo.List(ctx, status)
}

func (s *MeetingService) ListLive(ctx context.Context) ([]domain.Meeting, error) {
	return s.meetingRepo.ListLive(ctx)
}

// Update edits scheduling fields, only while the meeting is upcoming.
func (s *MeetingService) Update(ctx context.Context, actorID, meetingID uuid.UUID, input UpdateMeetingInput) (*domain.Meeting, error) {
	m, err := s.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m.OrganizerID != actorID {
		return nil, ErrNotOrganizer
	}
	if !m.Editable() {
		return nil, ErrInvalidState
	}

	if input.Title != nil {
		m.Title = *input.Title
	}
	if input.Date != nil {
		m.Date = *input.Date
	}
	if input.Time != nil {
		m.Time = *input.Time
	}
	if input.DurationMinutes != nil {
		m.DurationMinutes = *input.DurationMinutes
	}
	if input.Location != nil {
		m.Location = input.Location
	}
	if input.Agenda != nil {
		m.Agenda = append([]string(nil), input.Agenda...)
	}

	if errs := validator.ValidateMeeting(m.Title, string(m.Type), m.Date, m.Time, m.DurationMinutes, false); errs.HasErrors() {
		return nil, errs
	}

	if err := s.meetingRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating meeting: %w", err)
	}

	return m, nil
}

func (s *MeetingService) AddAttendee(ctx context.Context, actorID, meetingID, memberID uuid.UUID) (*domain.Meeting, error) {
	m, err := s.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m.OrganizerID != actorID {
		return nil, ErrNotOrganizer
	}
	if !m.Editable() {
		return nil, ErrInvalidState
	}
	if m.HasAttendee(memberID) {
		return m, nil
	}

	m.AttendeeIDs = append(m.AttendeeIDs, memberID)
	if err := s.meetingRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("adding attendee: %w", err)
	}
	return m, nil
}

func (s *MeetingService) RemoveAttendee(ctx context.Context, actorID, meetingID, memberID uuid.UUID) (*domain.Meeting, error) {
	m, err := s.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m.OrganizerID != actorID {
		return nil, ErrNotOrganizer
	}
	if !m.Editable() {
		return nil, ErrInvalidState
	}

	kept := m.AttendeeIDs[:0]
	for _, id := range m.AttendeeIDs {
		if id != memberID {
			kept = append(kept, id)
		}
	}
	m.AttendeeIDs = kept

	if err := s.meetingRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("removing attendee: %w", err)
	}
	return m, nil
}

// SetMinutes stores a generated minutes document. Regenerating overwrites
// the previous document; that is the only way it changes.
func (s *MeetingService) SetMinutes(ctx context.Context, meetingID uuid.UUID, minutes string) error {
	m, err := s.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if m.Status != domain.StatusCompleted {
		return ErrInvalidState
	}

	if err := s.meetingRepo.SetMinutesDocument(ctx, meetingID, minutes); err != nil {
		return fmt.Errorf("storing minutes: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyMinutesReady(meetingID)
	}
	return nil
}
