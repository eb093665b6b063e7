package gallery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// Handler handles admin HTTP requests for the before/after gallery.
type Handler struct {
	repo    Repository
	storage Storage
	logger  *logging.Logger
}

// NewHandler creates a new gallery handler.
func NewHandler(repo Repository, storage Storage, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, storage: storage, logger: logger}
}

// List handles GET /admin/gallery.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list gallery images", "error", err)
		http.Error(w, "failed to fetch gallery images", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"images": images, "count": len(images)})
}

// Create handles POST /admin/gallery. The request is multipart/form-data with
// an "image" file part and title/description/category fields.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		http.Error(w, "image storage not configured", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, ErrMissingImage.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, storageName, err := h.storage.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to upload gallery image", "error", err, "filename", header.Filename)
		http.Error(w, "failed to upload image", http.StatusInternalServerError)
		return
	}

	req := NewImage{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		ImageURL:    url,
		StorageName: storageName,
	}
	img, err := h.repo.Create(r.Context(), req)
	if err != nil {
		// The object is already in storage. Remove it so a failed insert
		// does not leak orphaned uploads.
		if rmErr := h.storage.Remove(r.Context(), storageName); rmErr != nil {
			h.logger.Error("failed to clean up orphaned upload", "error", rmErr, "storage_name", storageName)
		}
		if errors.Is(err, ErrMissingImage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create gallery image", "error", err)
		http.Error(w, "failed to create gallery image", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(img)
}

// Delete handles DELETE /admin/gallery/{id}. The stored object is removed
// after the database row; a storage failure is logged but not surfaced.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	img, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "gallery image not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch gallery image", "error", err)
		http.Error(w, "failed to delete gallery image", http.StatusInternalServerError)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "gallery image not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete gallery image", "error", err)
		http.Error(w, "failed to delete gallery image", http.StatusInternalServerError)
		return
	}
	if h.storage != nil {
		if err := h.storage.Remove(r.Context(), img.StorageName); err != nil {
			h.logger.Error("failed to remove stored image", "error", err, "storage_name", img.StorageName)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
