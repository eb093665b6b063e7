package blog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Handler handles admin HTTP requests for blog posts.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new blog handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /admin/blog.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list blog posts", "error", err)
		http.Error(w, "failed to fetch blog posts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"posts": posts, "count": len(posts)})
}

// Create handles POST /admin/blog.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req NewPost
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	post, err := h.repo.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidPost) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create blog post", "error", err)
		http.Error(w, "failed to create blog post", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(post)
}

// Update handles PATCH /admin/blog/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var upd UpdatePost
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	post, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update blog post", "error", err)
		http.Error(w, "failed to update blog post", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(post)
}

// Delete handles DELETE /admin/blog/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete blog post", "error", err)
		http.Error(w, "failed to delete blog post", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
