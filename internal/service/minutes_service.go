package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrGenerationFailed = errors.New("minutes generation failed")

var minutesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chamameet_minutes_generated_total",
	Help: "Number of minutes documents generated.",
})

// MinutesService produces a structured minutes document from a completed
// meeting's metadata. The delay stands in for a summarization backend; a
// real one can replace the body of buildMinutes without changing the
// contract or the section layout.
type MinutesService struct {
	meetingRepo repository.MeetingRepository
	directory   *DirectoryService

	// delay simulates processing latency. Tests shrink it.
	delay time.Duration
}

func NewMinutesService(meetingRepo repository.MeetingRepository, directory *DirectoryService) *MinutesService {
	return &MinutesService{
		meetingRepo: meetingRepo,
		directory:   directory,
		delay:       3 * time.Second,
	}
}

// SetDelay overrides the simulated processing latency. Test hook.
func (s *MinutesService) SetDelay(d time.Duration) {
	s.delay = d
}

// Generate returns the minutes text for a completed meeting with the AI
// minutes capability. Storage is the caller's responsibility. The context
// cancels a pending generation so nothing lands after the caller is gone.
func (s *MinutesService) Generate(ctx context.Context, meetingID uuid.UUID) (string, error) {
	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if m == nil {
		return "", ErrMeetingNotFound
	}
	if !m.AIMinutesEnabled {
		return "", ErrCapabilityDenied
	}
	if m.Status != domain.StatusCompleted {
		return "", ErrInvalidState
	}

	names := make([]string, 0, len(m.AttendeeIDs))
	for _, id := range m.AttendeeIDs {
		member, err := s.directory.GetMember(ctx, id)
		if err != nil {
			return "", fmt.Errorf("%w: resolving attendee %s: %v", ErrGenerationFailed, id, err)
		}
		if member == nil {
			continue
		}
		names = append(names, member.FullName)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(s.delay):
	}

	minutesGeneratedTotal.Inc()
	return buildMinutes(m, names), nil
}

func buildMinutes(m *domain.Meeting, attendees []string) string {
	var b strings.Builder

	b.WriteString("MEETING MINUTES\n")
	b.WriteString("===============\n")
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	when := m.Date
	if m.Time != "" {
		when += " " + m.Time
	}
	fmt.Fprintf(&b, "Date: %s\n", strings.TrimSpace(when))
	if len(attendees) > 0 {
		fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(attendees, ", "))
	} else {
		b.WriteString("Attendees: None recorded\n")
	}

	b.WriteString("\nKEY DISCUSSION POINTS\n")
	if len(m.Agenda) > 0 {
		for _, item := range m.Agenda {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	} else {
		b.WriteString("- General group business was discussed.\n")
	}

	b.WriteString("\nDECISIONS\n")
	b.WriteString("- Decisions taken during the meeting are recorded by the secretary.\n")

	b.WriteString("\nACTION ITEMS\n")
	b.WriteString("- Follow-ups assigned in the meeting to be tracked before the next session.\n")

	b.WriteString("\nNEXT MEETING\n")
	b.WriteString("To be scheduled by the organizer.\n")

	return b.String()
}
