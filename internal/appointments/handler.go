package appointments

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Handler handles admin HTTP requests for appointments.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListResponse is the response for listing appointments.
type ListResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}

// List handles GET /admin/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Refresh(r.Context()); err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch appointments")
		return
	}
	appts := Filter(h.store.Appointments(), r.URL.Query().Get("q"), r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, ListResponse{Appointments: appts, Count: len(appts)})
}

// Create handles POST /admin/appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req NewAppointment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, fieldErrs := ValidateForm(FormValues{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Procedure: req.Procedure,
		Date:      req.PreferredDate,
		Message:   req.Message,
	})
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
		return
	}

	appt, err := h.store.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.logger.Info("appointment created", "id", appt.ID, "procedure", appt.Procedure)
	writeJSON(w, http.StatusCreated, appt)
}

// Update handles PATCH /admin/appointments/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var upd UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.store.Update(r.Context(), id, upd)
	if err != nil {
		h.writeStoreError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// StatusUpdateRequest is the body for a status transition.
type StatusUpdateRequest struct {
	Status Status `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus handles PATCH /admin/appointments/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.store.UpdateStatus(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		h.writeStoreError(w, "status update", err)
		return
	}

	h.logger.Info("appointment status updated", "id", id, "status", req.Status)
	writeJSON(w, http.StatusOK, appt)
}

// Delete handles DELETE /admin/appointments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV handles GET /admin/appointments/export. Query params `q`
// and `status` filter the exported rows.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Refresh(r.Context()); err != nil {
		h.logger.Error("failed to export appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch appointments")
		return
	}
	appts := Filter(h.store.Appointments(), r.URL.Query().Get("q"), r.URL.Query().Get("status"))

	filename := fmt.Sprintf("appointments-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteCSV(w, appts); err != nil {
		h.logger.Error("failed to write csv", "error", err)
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrInvalidTransition):
		writeError(w, http.StatusConflict, "illegal status transition")
	case errors.Is(err, ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid appointment status")
	default:
		h.logger.Error("appointment "+op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op+" appointment")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
