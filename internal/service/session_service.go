package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/permission"
	"github.com/kamwana/chamameet/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrNoActiveSession = errors.New("no active session for this meeting")

var sessionsJoinedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chamameet_sessions_joined_total",
	Help: "Number of live sessions opened.",
})

// ParticipantStatus is an advisory presence snapshot taken from the member
// directory when the session opens.
type ParticipantStatus struct {
	DisplayName string          `json:"display_name"`
	Presence    domain.Presence `json:"presence"`
	MicOn       bool            `json:"mic_on"`
}

// SessionState is the local, never-persisted state of one live meeting.
type SessionState struct {
	MeetingID               uuid.UUID                       `json:"meeting_id"`
	IsMuted                 bool                            `json:"is_muted"`
	IsVideoOff              bool                            `json:"is_video_off"`
	IsRecording             bool                            `json:"is_recording"`
	ElapsedRecordingSeconds int                             `json:"elapsed_recording_seconds"`
	ElapsedDisplay          string                          `json:"elapsed_display"`
	Participants            map[uuid.UUID]ParticipantStatus `json:"participants"`
	JoinedAt                time.Time                       `json:"joined_at"`
}

type session struct {
	state       SessionState
	cancelTimer context.CancelFunc
}

// SessionService is the live-session state machine. One session exists per
// live meeting per process; every transition goes through these methods
// under a single mutex, so ticks and user actions never interleave
// mid-update.
type SessionService struct {
	meetingRepo repository.MeetingRepository
	directory   *DirectoryService
	notifier    Notifier

	// tick is the recording timer resolution. 1s in production; tests
	// shrink it to drive the timer without waiting.
	tick time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func NewSessionService(meetingRepo repository.MeetingRepository, directory *DirectoryService, notifier Notifier) *SessionService {
	return &SessionService{
		meetingRepo: meetingRepo,
		directory:   directory,
		notifier:    notifier,
		tick:        time.Second,
		sessions:    make(map[uuid.UUID]*session),
	}
}

// SetTick overrides the timer resolution. Test hook.
func (s *SessionService) SetTick(d time.Duration) {
	s.tick = d
}

// Join opens a session on a live meeting. Joining an already-joined meeting
// is a no-op that returns the existing state without resetting anything.
func (s *SessionService) Join(ctx context.Context, meetingID, memberID uuid.UUID) (*SessionState, error) {
	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMeetingNotFound
	}
	if m.Status != domain.StatusLive {
		return nil, ErrInvalidState
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[meetingID]; ok {
		snap := existing.state
		return &snap, nil
	}

	participants := make(map[uuid.UUID]ParticipantStatus, len(m.AttendeeIDs))
	for _, id := range m.AttendeeIDs {
		member, err := s.directory.GetMember(ctx, id)
		if err != nil || member == nil {
			continue
		}
		participants[id] = ParticipantStatus{
			DisplayName: member.FullName,
			Presence:    member.Presence,
			MicOn:       member.Presence == domain.PresenceOnline,
		}
	}

	sess := &session{
		state: SessionState{
			MeetingID:      meetingID,
			ElapsedDisplay: FormatElapsed(0),
			Participants:   participants,
			JoinedAt:       time.Now(),
		},
	}
	s.sessions[meetingID] = sess
	sessionsJoinedTotal.Inc()

	snap := sess.state
	return &snap, nil
}

// Session returns a snapshot of the current state.
func (s *SessionService) Session(meetingID uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[meetingID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	snap := sess.state
	return &snap, nil
}

// HasJoined reports whether a session is open for the meeting. The live
// alert uses it to avoid prompting a viewer who is already in the room.
func (s *SessionService) HasJoined(meetingID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[meetingID]
	return ok
}

func (s *SessionService) ToggleMute(meetingID uuid.UUID) (*SessionState, error) {
	return s.mutate(meetingID, func(st *SessionState) {
		st.IsMuted = !st.IsMuted
	})
}

func (s *SessionService) ToggleVideo(meetingID uuid.UUID) (*SessionState, error) {
	return s.mutate(meetingID, func(st *SessionState) {
		st.IsVideoOff = !st.IsVideoOff
	})
}

// StartRecording begins the timer. Requires the meeting's recording
// capability; restarting after a stop resets the counter to zero. Calling
// it while already recording is a no-op.
func (s *SessionService) StartRecording(ctx context.Context, meetingID uuid.UUID) (*SessionState, error) {
	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMeetingNotFound
	}
	if !m.RecordingEnabled {
		return nil, ErrCapabilityDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[meetingID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	if sess.state.IsRecording {
		snap := sess.state
		return &snap, nil
	}

	sess.state.IsRecording = true
	sess.state.ElapsedRecordingSeconds = 0
	sess.state.ElapsedDisplay = FormatElapsed(0)

	timerCtx, cancel := context.WithCancel(context.Background())
	sess.cancelTimer = cancel
	go s.runTimer(timerCtx, meetingID)

	if s.notifier != nil {
		s.notifier.NotifyRecordingStarted(meetingID)
	}

	snap := sess.state
	return &snap, nil
}

// StopRecording halts the timer. Elapsed time stays visible until the
// session ends; it is never written to the meeting record.
func (s *SessionService) StopRecording(meetingID uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[meetingID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	if sess.state.IsRecording {
		sess.state.IsRecording = false
		s.stopTimerLocked(sess)
		if s.notifier != nil {
			s.notifier.NotifyRecordingStopped(meetingID)
		}
	}

	snap := sess.state
	return &snap, nil
}

// UpdateNotes writes the recording transcript/notes onto the meeting
// record. Only allowed during a live session with recording enabled.
func (s *SessionService) UpdateNotes(ctx context.Context, meetingID uuid.UUID, notes string) error {
	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMeetingNotFound
	}
	if !m.RecordingEnabled {
		return ErrCapabilityDenied
	}

	if !s.HasJoined(meetingID) {
		return ErrNoActiveSession
	}

	if err := s.meetingRepo.SetRecordingNotes(ctx, meetingID, notes); err != nil {
		return fmt.Errorf("storing recording notes: %w", err)
	}
	return nil
}

// Leave tears down the local session without touching the meeting record;
// the meeting stays live for everyone else.
func (s *SessionService) Leave(meetingID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[meetingID]
	if !ok {
		return ErrNoActiveSession
	}

	s.stopTimerLocked(sess)
	delete(s.sessions, meetingID)
	return nil
}

// End completes the meeting. Organizer only (or a role allowed to end
// meetings). Destroys any local session and cancels the timer
// unconditionally.
func (s *SessionService) End(ctx context.Context, meetingID, actorID uuid.UUID, role string) error {
	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMeetingNotFound
	}
	if m.OrganizerID != actorID && !permission.Can(role, permission.ActionEndMeeting) {
		return ErrNotOrganizer
	}

	if err := m.Complete(); err != nil {
		return ErrInvalidState
	}

	if err := s.meetingRepo.UpdateStatus(ctx, meetingID, domain.StatusCompleted); err != nil {
		return fmt.Errorf("completing meeting: %w", err)
	}

	s.mu.Lock()
	if sess, ok := s.sessions[meetingID]; ok {
		s.stopTimerLocked(sess)
		delete(s.sessions, meetingID)
	}
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyMeetingEnded(meetingID)
	}
	return nil
}

func (s *SessionService) mutate(meetingID uuid.UUID, fn func(*SessionState)) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[meetingID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	fn(&sess.state)
	snap := sess.state
	return &snap, nil
}

// stopTimerLocked cancels the recording timer goroutine. Caller holds s.mu.
func (s *SessionService) stopTimerLocked(sess *session) {
	if sess.cancelTimer != nil {
		sess.cancelTimer()
		sess.cancelTimer = nil
	}
}

// runTimer increments the elapsed counter once per tick until cancelled.
// The session-existence and IsRecording checks make a stray tick after
// stop/leave/end impossible even if cancellation races the ticker.
func (s *SessionService) runTimer(ctx context.Context, meetingID uuid.UUID) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			sess, ok := s.sessions[meetingID]
			if !ok || !sess.state.IsRecording {
				s.mu.Unlock()
				return
			}
			sess.state.ElapsedRecordingSeconds++
			sess.state.ElapsedDisplay = FormatElapsed(sess.state.ElapsedRecordingSeconds)
			s.mu.Unlock()
		}
	}
}

// FormatElapsed renders a recording duration as M:SS, or H:MM:SS from one
// hour up.
func FormatElapsed(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
