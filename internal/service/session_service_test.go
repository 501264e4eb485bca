package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/repository/memory"
)

func newTestDirectory(repo *memory.MemberRepo) *DirectoryService {
	return NewDirectoryService(repo, 64, time.Minute)
}

func seedMember(t *testing.T, repo *memory.MemberRepo, name string, presence domain.Presence) *domain.Member {
	t.Helper()
	m := &domain.Member{
		ID:       uuid.New(),
		FullName: name,
		Email:    name + "@example.org",
		Role:     "member",
		Presence: presence,
	}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("seeding member: %v", err)
	}
	return m
}

func seedMeeting(t *testing.T, repo *memory.MeetingRepo, status domain.MeetingStatus, recording, aiMinutes bool, attendees ...uuid.UUID) *domain.Meeting {
	t.Helper()
	m := &domain.Meeting{
		ID:               uuid.New(),
		Title:            "Monthly Review",
		Type:             domain.TypeVirtual,
		Status:           status,
		Date:             "2024-08-15",
		Time:             "14:00",
		DurationMinutes:  60,
		OrganizerID:      uuid.New(),
		Agenda:           []string{"Loan repayments", "New applications"},
		AttendeeIDs:      attendees,
		RecordingEnabled: recording,
		AIMinutesEnabled: aiMinutes,
	}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("seeding meeting: %v", err)
	}
	return m
}

func newSessionFixture(t *testing.T) (*SessionService, *memory.MeetingRepo, *memory.MemberRepo) {
	t.Helper()
	meetingRepo := memory.NewMeetingRepo()
	memberRepo := memory.NewMemberRepo()
	svc := NewSessionService(meetingRepo, newTestDirectory(memberRepo), nil)
	svc.SetTick(10 * time.Millisecond)
	return svc, meetingRepo, memberRepo
}

func TestJoinRequiresLiveMeeting(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	upcoming := seedMeeting(t, meetingRepo, domain.StatusUpcoming, false, false)
	completed := seedMeeting(t, meetingRepo, domain.StatusCompleted, false, false)
	live := seedMeeting(t, meetingRepo, domain.StatusLive, false, false)

	if _, err := svc.Join(ctx, upcoming.ID, uuid.New()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("joining upcoming meeting: err = %v, want ErrInvalidState", err)
	}
	if _, err := svc.Join(ctx, completed.ID, uuid.New()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("joining completed meeting: err = %v, want ErrInvalidState", err)
	}
	if _, err := svc.Join(ctx, uuid.New(), uuid.New()); !errors.Is(err, ErrMeetingNotFound) {
		t.Errorf("joining unknown meeting: err = %v, want ErrMeetingNotFound", err)
	}

	state, err := svc.Join(ctx, live.ID, uuid.New())
	if err != nil {
		t.Fatalf("joining live meeting: %v", err)
	}
	if state.IsMuted || state.IsVideoOff || state.IsRecording {
		t.Errorf("fresh session toggles = %v/%v/%v, want all false", state.IsMuted, state.IsVideoOff, state.IsRecording)
	}
	if state.ElapsedRecordingSeconds != 0 {
		t.Errorf("fresh session elapsed = %d, want 0", state.ElapsedRecordingSeconds)
	}
}

func TestJoinSnapshotsParticipants(t *testing.T) {
	svc, meetingRepo, memberRepo := newSessionFixture(t)
	ctx := context.Background()

	jane := seedMember(t, memberRepo, "Jane Smith", domain.PresenceOnline)
	peter := seedMember(t, memberRepo, "Peter Kamau", domain.PresenceOffline)
	m := seedMeeting(t, meetingRepo, domain.StatusLive, false, false, jane.ID, peter.ID)

	state, err := svc.Join(ctx, m.ID, jane.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if len(state.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(state.Participants))
	}
	if got := state.Participants[jane.ID]; got.DisplayName != "Jane Smith" || got.Presence != domain.PresenceOnline {
		t.Errorf("jane snapshot = %+v", got)
	}
	if got := state.Participants[peter.ID]; got.Presence != domain.PresenceOffline || got.MicOn {
		t.Errorf("peter snapshot = %+v, want offline with mic off", got)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, true, false)
	if _, err := svc.Join(ctx, m.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.StartRecording(ctx, m.ID); err != nil {
		t.Fatalf("start recording: %v", err)
	}

	time.Sleep(55 * time.Millisecond)

	state, err := svc.Join(ctx, m.ID, uuid.New())
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if !state.IsRecording {
		t.Error("second join reset IsRecording")
	}
	if state.ElapsedRecordingSeconds == 0 {
		t.Error("second join reset the recording counter")
	}
}

func TestRecordingGate(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, false, false)
	if _, err := svc.Join(ctx, m.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := svc.StartRecording(ctx, m.ID); !errors.Is(err, ErrCapabilityDenied) {
		t.Errorf("start recording without capability: err = %v, want ErrCapabilityDenied", err)
	}

	state, err := svc.Session(m.ID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if state.IsRecording {
		t.Error("IsRecording became true despite recording being disabled")
	}
}

func TestRecordingTimerCountsAndStops(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, true, false)
	if _, err := svc.Join(ctx, m.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.StartRecording(ctx, m.ID); err != nil {
		t.Fatalf("start recording: %v", err)
	}

	// 10ms tick: ~10 increments in 105ms.
	time.Sleep(105 * time.Millisecond)

	state, err := svc.StopRecording(m.ID)
	if err != nil {
		t.Fatalf("stop recording: %v", err)
	}
	if state.IsRecording {
		t.Error("IsRecording still true after stop")
	}
	if state.ElapsedRecordingSeconds < 8 || state.ElapsedRecordingSeconds > 12 {
		t.Errorf("elapsed = %d, want ~10", state.ElapsedRecordingSeconds)
	}

	// No stray ticks after stop.
	frozen := state.ElapsedRecordingSeconds
	time.Sleep(50 * time.Millisecond)
	state, err = svc.Session(m.ID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if state.ElapsedRecordingSeconds != frozen {
		t.Errorf("elapsed advanced after stop: %d -> %d", frozen, state.ElapsedRecordingSeconds)
	}
}

func TestRecordingRestartResetsCounter(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, true, false)
	if _, err := svc.Join(ctx, m.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.StartRecording(ctx, m.ID); err != nil {
		t.Fatalf("start recording: %v", err)
	}
	time.Sleep(55 * time.Millisecond)
	if _, err := svc.StopRecording(m.ID); err != nil {
		t.Fatalf("stop recording: %v", err)
	}

	state, err := svc.StartRecording(ctx, m.ID)
	if err != nil {
		t.Fatalf("restart recording: %v", err)
	}
	if state.ElapsedRecordingSeconds != 0 {
		t.Errorf("elapsed after restart = %d, want 0 (no resume)", state.ElapsedRecordingSeconds)
	}
}

func TestStartRecordingWhileRecordingIsNoop(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, true, false)
	if _, err := svc.Join(ctx, m.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.StartRecording(ctx, m.ID); err != nil {
		t.Fatalf("start recording: %v", err)
	}
	time.Sleep(55 * time.Millisecond)

	state, err := svc.StartRecording(ctx, m.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if state.ElapsedRecordingSeconds == 0 {
		t.Error("second start while recording reset the counter")
	}
}

func TestToggles(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, false, false)
	if _, err := svc.Join(ctx, m.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}

	state, err := svc.ToggleMute(m.ID)
	if err != nil {
		t.Fatalf("toggle mute: %v", err)
	}
	if !state.IsMuted {
		t.Error("IsMuted = false after toggle, want true")
	}

	state, err = svc.ToggleMute(m.ID)
	if err != nil {
		t.Fatalf("toggle mute: %v", err)
	}
	if state.IsMuted {
		t.Error("IsMuted = true after second toggle, want false")
	}

	state, err = svc.ToggleVideo(m.ID)
	if err != nil {
		t.Fatalf("toggle video: %v", err)
	}
	if !state.IsVideoOff {
		t.Error("IsVideoOff = false after toggle, want true")
	}

	if _, err := svc.ToggleMute(uuid.New()); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("toggle without session: err = %v, want ErrNoActiveSession", err)
	}
}

func TestLeaveKeepsMeetingLive(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, true, false)
	if _, err := svc.Join(ctx, m.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.StartRecording(ctx, m.ID); err != nil {
		t.Fatalf("start recording: %v", err)
	}

	if err := svc.Leave(m.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}

	if _, err := svc.Session(m.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("session after leave: err = %v, want ErrNoActiveSession", err)
	}

	stored, err := meetingRepo.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if stored.Status != domain.StatusLive {
		t.Errorf("meeting status after leave = %q, want live", stored.Status)
	}
}

func TestEndCompletesMeeting(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, true, false)
	if _, err := svc.Join(ctx, m.ID, m.OrganizerID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.StartRecording(ctx, m.ID); err != nil {
		t.Fatalf("start recording: %v", err)
	}

	// Not organizer, plain member role.
	if err := svc.End(ctx, m.ID, uuid.New(), "member"); !errors.Is(err, ErrNotOrganizer) {
		t.Errorf("end by stranger: err = %v, want ErrNotOrganizer", err)
	}

	if err := svc.End(ctx, m.ID, m.OrganizerID, "member"); err != nil {
		t.Fatalf("end by organizer: %v", err)
	}

	stored, err := meetingRepo.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if stored.Status != domain.StatusCompleted {
		t.Errorf("meeting status after end = %q, want completed", stored.Status)
	}
	if _, err := svc.Session(m.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("session after end: err = %v, want ErrNoActiveSession", err)
	}

	// Ending again is a stale-view call.
	if err := svc.End(ctx, m.ID, m.OrganizerID, "member"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double end: err = %v, want ErrInvalidState", err)
	}
}

func TestEndAllowedForChairperson(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	m := seedMeeting(t, meetingRepo, domain.StatusLive, false, false)
	if err := svc.End(ctx, m.ID, uuid.New(), "chairperson"); err != nil {
		t.Errorf("end by chairperson: %v", err)
	}
}

func TestUpdateNotes(t *testing.T) {
	svc, meetingRepo, _ := newSessionFixture(t)
	ctx := context.Background()

	noRec := seedMeeting(t, meetingRepo, domain.StatusLive, false, false)
	if _, err := svc.Join(ctx, noRec.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.UpdateNotes(ctx, noRec.ID, "notes"); !errors.Is(err, ErrCapabilityDenied) {
		t.Errorf("notes without recording capability: err = %v, want ErrCapabilityDenied", err)
	}

	rec := seedMeeting(t, meetingRepo, domain.StatusLive, true, false)
	if err := svc.UpdateNotes(ctx, rec.ID, "notes"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("notes without session: err = %v, want ErrNoActiveSession", err)
	}

	if _, err := svc.Join(ctx, rec.ID, uuid.New()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.UpdateNotes(ctx, rec.ID, "Discussed loan defaults"); err != nil {
		t.Fatalf("notes: %v", err)
	}

	stored, err := meetingRepo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if stored.RecordingNotes == nil || *stored.RecordingNotes != "Discussed loan defaults" {
		t.Errorf("stored notes = %v", stored.RecordingNotes)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7325, "2:02:05"},
	}

	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
