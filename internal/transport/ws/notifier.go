package ws

import (
	"log"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub. It is
// the push half of the live-meeting alert: state changes land on every
// connected member without waiting for a poll.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyMeetingLive(m *domain.Meeting) {
	evt, err := NewEvent(EventTypeMeetingLive, &m.ID, MeetingLivePayload{Meeting: *m})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToAll(evt)
}

func (n *HubNotifier) NotifyMeetingEnded(meetingID uuid.UUID) {
	evt, err := NewEvent(EventTypeMeetingEnded, &meetingID, MeetingEndedPayload{ID: meetingID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToAll(evt)
}

func (n *HubNotifier) NotifyRecordingStarted(meetingID uuid.UUID) {
	evt, err := NewEvent(EventTypeRecordingStarted, &meetingID, MeetingPayload{MeetingID: meetingID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToMeeting(meetingID, evt, nil)
}

func (n *HubNotifier) NotifyRecordingStopped(meetingID uuid.UUID) {
	evt, err := NewEvent(EventTypeRecordingStopped, &meetingID, MeetingPayload{MeetingID: meetingID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToMeeting(meetingID, evt, nil)
}

func (n *HubNotifier) NotifyMinutesReady(meetingID uuid.UUID) {
	evt, err := NewEvent(EventTypeMinutesReady, &meetingID, MinutesReadyPayload{MeetingID: meetingID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToMeeting(meetingID, evt, nil)
}
