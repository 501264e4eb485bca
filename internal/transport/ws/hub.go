package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/service"
)

// Hub manages all active WebSocket clients and routes meeting events.
type Hub struct {
	// clients maps memberID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg

	// directory records connect/disconnect as advisory presence. Optional.
	directory *service.DirectoryService
}

type broadcastMsg struct {
	meetingID *uuid.UUID // nil means every connected client
	data      []byte
	excludeID *uuid.UUID // optional: skip this member (e.g. sender)
}

func NewHub(directory *service.DirectoryService) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		directory:  directory,
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.memberID] = client
			log.Printf("ws hub: member %s connected (%d total)", client.memberID, len(h.clients))

			h.setPresence(client.memberID, domain.PresenceOnline)
			h.broadcastPresence(client.memberID, domain.PresenceOnline)

		case client := <-h.unregister:
			if _, ok := h.clients[client.memberID]; ok {
				delete(h.clients, client.memberID)
				close(client.send)
				close(client.done)
				log.Printf("ws hub: member %s disconnected (%d total)", client.memberID, len(h.clients))

				h.setPresence(client.memberID, domain.PresenceOffline)
				h.broadcastPresence(client.memberID, domain.PresenceOffline)
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				// Skip excluded member
				if msg.excludeID != nil && client.memberID == *msg.excludeID {
					continue
				}
				// Meeting-scoped events only go to subscribers
				if msg.meetingID != nil && !client.IsSubscribed(*msg.meetingID) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client.memberID)
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastToMeeting sends an event to all subscribers of a meeting.
func (h *Hub) BroadcastToMeeting(meetingID uuid.UUID, event *Event, excludeMemberID *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{
		meetingID: &meetingID,
		data:      data,
		excludeID: excludeMemberID,
	}
}

// BroadcastToAll sends an event to every connected client. The live-meeting
// alert goes this way: everyone gets told a meeting is live.
func (h *Hub) BroadcastToAll(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{data: data}
}

// BroadcastToUser sends an event directly to a specific member.
func (h *Hub) BroadcastToUser(memberID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if client, ok := h.clients[memberID]; ok {
		select {
		case client.send <- data:
		default:
		}
	}
}

// HandleHandRaise relays a hand raise/lower to meeting subscribers
// (excluding the sender).
func (h *Hub) HandleHandRaise(sender *Client, event *Event) {
	meetingID := *event.MeetingID

	evt, err := NewEvent(EventTypeHandRaised, &meetingID, HandRaisedPayload{
		MemberID: sender.memberID,
		Raised:   event.Type == EventTypeHandRaise,
	})
	if err != nil {
		return
	}

	h.BroadcastToMeeting(meetingID, evt, &sender.memberID)
}

// broadcastPresence sends online/offline to all connected clients.
func (h *Hub) broadcastPresence(memberID uuid.UUID, presence domain.Presence) {
	evt, err := NewEvent(EventTypePresence, nil, PresencePayload{
		MemberID: memberID,
		Presence: presence,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, client := range h.clients {
		if client.memberID == memberID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}

func (h *Hub) setPresence(memberID uuid.UUID, presence domain.Presence) {
	if h.directory == nil {
		return
	}
	if err := h.directory.SetPresence(context.Background(), memberID, presence); err != nil {
		log.Printf("ws hub: presence update for %s: %v", memberID, err)
	}
}
