package notify

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/refinesurgery/clinic-platform/internal/observability/metrics"
	"github.com/refinesurgery/clinic-platform/internal/report"
	"github.com/refinesurgery/clinic-platform/internal/sanitize"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Handler exposes the public appointment email endpoint. It enforces an
// origin allowlist, a global rate limit, and the response contract the
// website form expects.
type Handler struct {
	dispatcher *Dispatcher
	limiter    RateLimiter
	origins    map[string]bool
	metrics    *metrics.IntakeMetrics
	reporter   report.Reporter
	logger     *logging.Logger
}

// NewHandler creates the send-appointment-email handler. allowedOrigins
// is the full list of origins permitted to call the endpoint.
func NewHandler(dispatcher *Dispatcher, limiter RateLimiter, allowedOrigins []string, m *metrics.IntakeMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Handler{
		dispatcher: dispatcher,
		limiter:    limiter,
		origins:    origins,
		metrics:    m,
		reporter:   report.NoopReporter{},
		logger:     logger,
	}
}

// SetReporter routes dispatch failures to an error tracker. The default
// is a no-op sink.
func (h *Handler) SetReporter(r report.Reporter) {
	if r != nil {
		h.reporter = r
	}
}

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) setCORS(w http.ResponseWriter, origin string) bool {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if h.origins[origin] {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		return true
	}
	return false
}

func writeResponse(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// ServeHTTP handles POST /functions/send-appointment-email.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	allowed := h.setCORS(w, origin)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	if r.Method != http.MethodPost {
		writeResponse(w, http.StatusMethodNotAllowed, response{Success: false, Error: "Method not allowed"})
		return
	}

	if !allowed {
		h.logger.Warn("rejected request from unauthorized origin", "origin", origin)
		w.Header().Del("Access-Control-Allow-Origin")
		writeResponse(w, http.StatusForbidden, response{Success: false, Error: "Origin not allowed"})
		return
	}

	ok, err := h.limiter.Allow(r.Context())
	if err != nil {
		h.logger.Error("rate limiter failed", "error", err)
		writeResponse(w, http.StatusInternalServerError, response{Success: false, Error: "Internal server error"})
		return
	}
	if !ok {
		h.logger.Warn("rate limit exceeded", "origin", origin)
		h.metrics.IncRateLimited()
		writeResponse(w, http.StatusTooManyRequests, response{Success: false, Error: "Too many requests. Please try again later."})
		return
	}

	var req sanitize.FormInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Error: "Invalid request body"})
		return
	}

	h.logger.Info("received appointment request",
		"name", req.Name, "email", req.Email, "phone", req.Phone, "procedure", req.Procedure, "date", req.Date)

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Phone) == "" {
		h.metrics.IncSubmission("rejected")
		writeResponse(w, http.StatusBadRequest, response{Success: false, Error: "Missing required fields: name, email, and phone"})
		return
	}
	if !emailShape.MatchString(req.Email) {
		h.metrics.IncSubmission("rejected")
		writeResponse(w, http.StatusBadRequest, response{Success: false, Error: "Invalid email format"})
		return
	}

	// Sanitize server-side regardless of what the client sent.
	clean := sanitize.CleanForm(req.Name, req.Email, req.Phone, req.Procedure, req.Date, req.Message)

	done := h.metrics.ObserveDispatch()
	if err := h.dispatcher.Dispatch(r.Context(), clean); err != nil {
		done()
		h.logger.Error("appointment email dispatch failed", "error", err)
		h.reporter.CaptureError(err, map[string]string{"endpoint": "send-appointment-email", "origin": origin})
		h.metrics.IncSubmission("failed")
		writeResponse(w, http.StatusInternalServerError, response{Success: false, Error: err.Error()})
		return
	}
	done()

	h.metrics.IncSubmission("accepted")
	writeResponse(w, http.StatusOK, response{Success: true, Data: map[string]string{"status": "sent"}})
}
