package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/service"
	"github.com/kamwana/chamameet/internal/transport/http/middleware"
	"github.com/kamwana/chamameet/pkg/validator"
)

type MeetingHandler struct {
	meetingService *service.MeetingService
	sessions       *service.SessionService
}

func NewMeetingHandler(meetingService *service.MeetingService, sessions *service.SessionService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService, sessions: sessions}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	role := middleware.GetRole(r.Context())

	var input service.CreateMeetingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	m, err := h.meetingService.Create(r.Context(), memberID, role, input)
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeValidationErrors(w, verrs)
		case errors.Is(err, service.ErrCapabilityDenied):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not allowed to create meetings")
		default:
			log.Printf("ERROR create meeting: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.MeetingStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.MeetingStatus(s)
		if st != domain.StatusUpcoming && st != domain.StatusLive && st != domain.StatusCompleted {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be upcoming, live, or completed")
			return
		}
		status = &st
	}

	meetings, err := h.meetingService.List(r.Context(), status)
	if err != nil {
		log.Printf("ERROR list meetings: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if meetings == nil {
		meetings = []domain.Meeting{}
	}

	writeJSON(w, http.StatusOK, meetings)
}

// liveMeetingAlert is the pull side of the live-meeting notification: every
// live meeting plus whether the caller already has the session open.
type liveMeetingAlert struct {
	Meeting   domain.Meeting `json:"meeting"`
	InSession bool           `json:"in_session"`
}

func (h *MeetingHandler) Live(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.meetingService.ListLive(r.Context())
	if err != nil {
		log.Printf("ERROR list live meetings: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	alerts := make([]liveMeetingAlert, 0, len(meetings))
	for _, m := range meetings {
		alerts = append(alerts, liveMeetingAlert{
			Meeting:   m,
			InSession: h.sessions.HasJoined(m.ID),
		})
	}

	writeJSON(w, http.StatusOK, alerts)
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid meeting ID")
		return
	}

	m, err := h.meetingService.GetByID(r.Context(), meetingID)
	if err != nil {
		if errors.Is(err, service.ErrMeetingNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Meeting not found")
		} else {
			log.Printf("ERROR get meeting: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid meeting ID")
		return
	}

	var input service.UpdateMeetingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	m, err := h.meetingService.Update(r.Context(), memberID, meetingID, input)
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.Is(err, service.ErrMeetingNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Meeting not found")
		case errors.Is(err, service.ErrNotOrganizer):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the organizer can edit this meeting")
		case errors.Is(err, service.ErrInvalidState):
			writeError(w, http.StatusConflict, "INVALID_STATE", "Meeting can only be edited while upcoming")
		case errors.As(err, &verrs):
			writeValidationErrors(w, verrs)
		default:
			log.Printf("ERROR update meeting: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *MeetingHandler) AddAttendee(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid meeting ID")
		return
	}

	var body struct {
		MemberID string `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	attendeeID, err := uuid.Parse(body.MemberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid member ID")
		return
	}

	m, err := h.meetingService.AddAttendee(r.Context(), memberID, meetingID, attendeeID)
	if err != nil {
		h.writeAttendeeError(w, err, "add attendee")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *MeetingHandler) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())
	meetingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid meeting ID")
		return
	}

	attendeeID, err := uuid.Parse(r.PathValue("mid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid member ID")
		return
	}

	m, err := h.meetingService.RemoveAttendee(r.Context(), memberID, meetingID, attendeeID)
	if err != nil {
		h.writeAttendeeError(w, err, "remove attendee")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *MeetingHandler) writeAttendeeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrMeetingNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Meeting not found")
	case errors.Is(err, service.ErrNotOrganizer):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the organizer can manage attendees")
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, http.StatusConflict, "INVALID_STATE", "Attendees can only change while the meeting is upcoming")
	default:
		log.Printf("ERROR %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}
