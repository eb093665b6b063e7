package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Handler exposes sign-in and sign-out endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an auth handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /auth/sign-in.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	session, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.Error("sign-in failed", "error", err)
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(session)
}

// SignOut handles POST /auth/sign-out. The bearer token, when present
// and valid, identifies the session being ended.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if token, ok := bearerToken(r); ok {
		if claims, err := h.service.Verify(token); err == nil {
			h.service.SignOut(r.Context(), claims)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}
