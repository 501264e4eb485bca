package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/kamwana/chamameet/internal/permission"
	"github.com/kamwana/chamameet/internal/service"
	"github.com/kamwana/chamameet/internal/transport/http/middleware"
)

type MinutesHandler struct {
	minutesService *service.MinutesService
	meetingService *service.MeetingService
}

func NewMinutesHandler(minutesService *service.MinutesService, meetingService *service.MeetingService) *MinutesHandler {
	return &MinutesHandler{minutesService: minutesService, meetingService: meetingService}
}

// Generate runs the minutes job and stores the result on the meeting.
// Generation is tied to the request context, so a client that gives up
// cancels the pending job instead of leaving it to finish into nowhere.
func (h *MinutesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRole(r.Context())
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	if !permission.Can(role, permission.ActionApproveMinutes) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not allowed to generate minutes")
		return
	}

	minutes, err := h.minutesService.Generate(r.Context(), meetingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMeetingNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Meeting not found")
		case errors.Is(err, service.ErrCapabilityDenied):
			writeError(w, http.StatusForbidden, "CAPABILITY_DENIED", "AI minutes are not enabled for this meeting")
		case errors.Is(err, service.ErrInvalidState):
			writeError(w, http.StatusConflict, "INVALID_STATE", "Minutes can only be generated for completed meetings")
		case errors.Is(err, context.Canceled):
			// Client went away; nothing to write.
		case errors.Is(err, service.ErrGenerationFailed):
			log.Printf("ERROR generate minutes: %v", err)
			writeError(w, http.StatusBadGateway, "GENERATION_FAILED", "Minutes generation failed, try again")
		default:
			log.Printf("ERROR generate minutes: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	if err := h.meetingService.SetMinutes(r.Context(), meetingID, minutes); err != nil {
		log.Printf("ERROR store minutes: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"minutes": minutes})
}

func (h *MinutesHandler) Get(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := parseMeetingID(w, r)
	if !ok {
		return
	}

	m, err := h.meetingService.GetByID(r.Context(), meetingID)
	if err != nil {
		if errors.Is(err, service.ErrMeetingNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Meeting not found")
		} else {
			log.Printf("ERROR get minutes: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	if m.MinutesDocument == nil {
		writeError(w, http.StatusNotFound, "NO_MINUTES", "No minutes have been generated for this meeting")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"minutes": *m.MinutesDocument})
}
