package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testOrigin = "https://refineplasticsurgerytz.com"

func newTestHandler(sender EmailSender, limiter RateLimiter) *Handler {
	if sender == nil {
		sender = &recordingSender{}
	}
	if limiter == nil {
		limiter = NewWindowLimiter(30, time.Minute)
	}
	d := NewDispatcher(sender, "info@refineplasticsurgerytz.com", nil, nil)
	return NewHandler(d, limiter, []string{testOrigin, "http://localhost:8080"}, nil, nil)
}

func postJSON(h http.Handler, body, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/functions/send-appointment-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

const validBody = `{"name":"Neema Johnson","email":"neema@example.com","phone":"+255712345678","procedure":"Rhinoplasty","date":"2026-09-10","message":"Morning preferred"}`

func TestHandlerSuccess(t *testing.T) {
	sender := &recordingSender{}
	h := newTestHandler(sender, nil)

	rec := postJSON(h, validBody, testOrigin)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("success = false")
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(sender.sent))
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestHandlerPreflight(t *testing.T) {
	h := newTestHandler(nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/functions/send-appointment-email", nil)
	req.Header.Set("Origin", testOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("allow-methods = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
		t.Errorf("allow-headers = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := newTestHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/functions/send-appointment-email", nil)
	req.Header.Set("Origin", testOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeResponse(t, rec).Success {
		t.Error("success = true for GET")
	}
}

func TestHandlerRejectsUnknownOrigin(t *testing.T) {
	sender := &recordingSender{}
	h := newTestHandler(sender, nil)

	rec := postJSON(h, validBody, "https://evil.example.com")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error != "Origin not allowed" {
		t.Errorf("error = %q", resp.Error)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q for rejected origin", got)
	}
	if len(sender.sent) != 0 {
		t.Error("emails sent for rejected origin")
	}
}

func TestHandlerMissingFields(t *testing.T) {
	sender := &recordingSender{}
	h := newTestHandler(sender, nil)

	rec := postJSON(h, `{"name":"Neema","email":"","phone":"+255712345678"}`, testOrigin)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error != "Missing required fields: name, email, and phone" {
		t.Errorf("error = %q", resp.Error)
	}
	if len(sender.sent) != 0 {
		t.Error("emails sent for incomplete form")
	}
}

func TestHandlerInvalidEmail(t *testing.T) {
	h := newTestHandler(nil, nil)

	rec := postJSON(h, `{"name":"Neema","email":"not-an-email","phone":"+255712345678"}`, testOrigin)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error != "Invalid email format" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestHandlerRateLimit(t *testing.T) {
	limiter := NewWindowLimiter(30, time.Minute)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	limiter.SetClock(func() time.Time { return now })
	sender := &recordingSender{}
	h := newTestHandler(sender, limiter)

	for i := 0; i < 30; i++ {
		rec := postJSON(h, validBody, testOrigin)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := postJSON(h, validBody, testOrigin)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("31st request: status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error != "Too many requests. Please try again later." {
		t.Errorf("error = %q", resp.Error)
	}
	if len(sender.sent) != 60 {
		t.Errorf("sent %d emails, want 60 (two per accepted request)", len(sender.sent))
	}
}

func TestHandlerDispatchFailure(t *testing.T) {
	sender := &recordingSender{failFor: "info@refineplasticsurgerytz.com"}
	h := newTestHandler(sender, nil)

	rec := postJSON(h, validBody, testOrigin)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success {
		t.Error("success = true on dispatch failure")
	}
}

func TestHandlerPatientSendFailure(t *testing.T) {
	sender := &recordingSender{failFor: "neema@example.com"}
	h := newTestHandler(sender, nil)

	rec := postJSON(h, validBody, testOrigin)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the confirmation cannot be sent", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success {
		t.Error("success = true on patient send failure")
	}
}

type capturingReporter struct {
	errs []error
	tags []map[string]string
}

func (c *capturingReporter) CaptureError(err error, tags map[string]string) {
	c.errs = append(c.errs, err)
	c.tags = append(c.tags, tags)
}

func (c *capturingReporter) Flush(time.Duration) {}

func TestHandlerReportsDispatchFailure(t *testing.T) {
	sender := &recordingSender{failFor: "info@refineplasticsurgerytz.com"}
	h := newTestHandler(sender, nil)
	reporter := &capturingReporter{}
	h.SetReporter(reporter)

	postJSON(h, validBody, testOrigin)

	if len(reporter.errs) != 1 {
		t.Fatalf("captured %d errors, want 1", len(reporter.errs))
	}
	if reporter.tags[0]["endpoint"] != "send-appointment-email" {
		t.Errorf("unexpected tags: %v", reporter.tags[0])
	}
}
