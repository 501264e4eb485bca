package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeMeetingSubscribe   = "meeting.subscribe"
	EventTypeMeetingUnsubscribe = "meeting.unsubscribe"
	EventTypeHandRaise          = "hand.raise"
	EventTypeHandLower          = "hand.lower"
	EventTypePing               = "ping"
)

// Event types - Server → Client
const (
	EventTypeMeetingLive      = "meeting.live"
	EventTypeMeetingEnded     = "meeting.ended"
	EventTypeRecordingStarted = "recording.started"
	EventTypeRecordingStopped = "recording.stopped"
	EventTypeMinutesReady     = "minutes.ready"
	EventTypeHandRaised       = "hand.raised"
	EventTypePresence         = "presence"
	EventTypePong             = "pong"
	EventTypeError            = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	MeetingID *uuid.UUID      `json:"meeting_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type MeetingPayload struct {
	MeetingID uuid.UUID `json:"meeting_id"`
}

// --- Server → Client payloads ---

type MeetingLivePayload struct {
	domain.Meeting
}

type MeetingEndedPayload struct {
	ID uuid.UUID `json:"id"`
}

type MinutesReadyPayload struct {
	MeetingID uuid.UUID `json:"meeting_id"`
}

type HandRaisedPayload struct {
	MemberID uuid.UUID `json:"member_id"`
	Raised   bool      `json:"raised"`
}

type PresencePayload struct {
	MemberID uuid.UUID       `json:"member_id"`
	Presence domain.Presence `json:"presence"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, meetingID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		MeetingID: meetingID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
