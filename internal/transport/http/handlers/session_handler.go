package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/service"
	"github.com/kamwana/chamameet/internal/transport/http/middleware"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	state, err := h.sessions.Join(r.Context(), meetingID, memberID)
	if err != nil {
		h.writeSessionError(w, err, "join session")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	state, err := h.sessions.Session(meetingID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			writeError(w, http.StatusNotFound, "NO_SESSION", "No active session for this meeting")
		} else {
			log.Printf("ERROR get session: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Leave(meetingID); err != nil {
		h.writeSessionError(w, err, "leave session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) ToggleMute(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.sessions.ToggleMute, "toggle mute")
}

func (h *SessionHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.sessions.ToggleVideo, "toggle video")
}

func (h *SessionHandler) StartRecording(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	state, err := h.sessions.StartRecording(r.Context(), meetingID)
	if err != nil {
		h.writeSessionError(w, err, "start recording")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) StopRecording(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	state, err := h.sessions.StopRecording(meetingID)
	if err != nil {
		h.writeSessionError(w, err, "stop recording")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.sessions.UpdateNotes(r.Context(), meetingID, body.Notes); err != nil {
		h.writeSessionError(w, err, "update notes")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	role := middleware.GetRole(r.Context())
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.End(r.Context(), meetingID, memberID, role); err != nil {
		h.writeSessionError(w, err, "end meeting")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) toggle(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID) (*service.SessionState, error), op string) {
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	state, err := fn(meetingID)
	if err != nil {
		h.writeSessionError(w, err, op)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrMeetingNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Meeting not found")
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, http.StatusConflict, "INVALID_STATE", "Meeting is not live")
	case errors.Is(err, service.ErrNoActiveSession):
		writeError(w, http.StatusConflict, "NO_SESSION", "No active session for this meeting")
	case errors.Is(err, service.ErrCapabilityDenied):
		writeError(w, http.StatusForbidden, "CAPABILITY_DENIED", "Recording is not enabled for this meeting")
	case errors.Is(err, service.ErrNotOrganizer):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the organizer can end this meeting")
	default:
		log.Printf("ERROR %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

func parseMeetingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid meeting ID")
		return uuid.Nil, false
	}
	return meetingID, true
}
