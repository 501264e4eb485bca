package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/repository/memory"
)

func newMinutesFixture(t *testing.T) (*MinutesService, *memory.MeetingRepo, *memory.MemberRepo) {
	t.Helper()
	meetingRepo := memory.NewMeetingRepo()
	memberRepo := memory.NewMemberRepo()
	svc := NewMinutesService(meetingRepo, newTestDirectory(memberRepo))
	svc.SetDelay(5 * time.Millisecond)
	return svc, meetingRepo, memberRepo
}

var minutesSections = []string{
	"MEETING MINUTES",
	"KEY DISCUSSION POINTS",
	"DECISIONS",
	"ACTION ITEMS",
	"NEXT MEETING",
}

func TestGenerateMinutes(t *testing.T) {
	svc, meetingRepo, memberRepo := newMinutesFixture(t)
	ctx := context.Background()

	jane := seedMember(t, memberRepo, "Jane Smith", domain.PresenceOnline)
	m := seedMeeting(t, meetingRepo, domain.StatusCompleted, false, true, jane.ID)

	minutes, err := svc.Generate(ctx, m.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, section := range minutesSections {
		if !strings.Contains(minutes, section) {
			t.Errorf("minutes missing section %q", section)
		}
	}
	if !strings.Contains(minutes, "Jane Smith") {
		t.Error("minutes missing attendee display name")
	}
	if !strings.Contains(minutes, m.Title) {
		t.Error("minutes missing meeting title")
	}
	if !strings.Contains(minutes, "2024-08-15 14:00") {
		t.Error("minutes missing meeting date/time")
	}
	// Agenda items become discussion points.
	if !strings.Contains(minutes, "Loan repayments") {
		t.Error("minutes missing agenda-derived discussion point")
	}
}

func TestGenerateMinutesZeroAttendees(t *testing.T) {
	svc, meetingRepo, _ := newMinutesFixture(t)
	m := seedMeeting(t, meetingRepo, domain.StatusCompleted, false, true)

	minutes, err := svc.Generate(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, section := range minutesSections {
		if !strings.Contains(minutes, section) {
			t.Errorf("minutes missing section %q", section)
		}
	}
	if !strings.Contains(minutes, "Attendees: None recorded") {
		t.Error("minutes missing empty-attendees line")
	}
}

func TestGenerateMinutesGates(t *testing.T) {
	svc, meetingRepo, _ := newMinutesFixture(t)
	ctx := context.Background()

	disabled := seedMeeting(t, meetingRepo, domain.StatusCompleted, false, false)
	if _, err := svc.Generate(ctx, disabled.ID); !errors.Is(err, ErrCapabilityDenied) {
		t.Errorf("generate without capability: err = %v, want ErrCapabilityDenied", err)
	}

	live := seedMeeting(t, meetingRepo, domain.StatusLive, false, true)
	if _, err := svc.Generate(ctx, live.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("generate for live meeting: err = %v, want ErrInvalidState", err)
	}

	if _, err := svc.Generate(ctx, uuid.New()); !errors.Is(err, ErrMeetingNotFound) {
		t.Errorf("generate for unknown meeting: err = %v, want ErrMeetingNotFound", err)
	}
}

func TestGenerateMinutesCancellation(t *testing.T) {
	svc, meetingRepo, _ := newMinutesFixture(t)
	svc.SetDelay(time.Second)

	m := seedMeeting(t, meetingRepo, domain.StatusCompleted, false, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.Generate(ctx, m.ID)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cancelled generate: err = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("generate ignored cancellation, took %v", elapsed)
	}
}
