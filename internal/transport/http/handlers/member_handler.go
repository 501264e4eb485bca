package handlers

import (
	"log"
	"net/http"

	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/service"
)

type MemberHandler struct {
	directory *service.DirectoryService
}

func NewMemberHandler(directory *service.DirectoryService) *MemberHandler {
	return &MemberHandler{directory: directory}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.directory.List(r.Context())
	if err != nil {
		log.Printf("ERROR list members: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if members == nil {
		members = []domain.Member{}
	}

	writeJSON(w, http.StatusOK, members)
}
