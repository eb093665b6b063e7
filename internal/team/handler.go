package team

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Handler handles admin HTTP requests for team members.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new team handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /admin/team.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list team members", "error", err)
		http.Error(w, "failed to fetch team members", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"members": members, "count": len(members)})
}

// Create handles POST /admin/team.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req NewMember
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	member, err := h.repo.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidMember) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create team member", "error", err)
		http.Error(w, "failed to create team member", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(member)
}

// Update handles PATCH /admin/team/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var upd UpdateMember
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	member, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "team member not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update team member", "error", err)
		http.Error(w, "failed to update team member", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(member)
}

// Delete handles DELETE /admin/team/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "team member not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete team member", "error", err)
		http.Error(w, "failed to delete team member", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
