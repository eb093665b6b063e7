package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/refinesurgery/clinic-platform/internal/appointments"
	"github.com/refinesurgery/clinic-platform/internal/config"
	"github.com/refinesurgery/clinic-platform/internal/sanitize"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// State is the lifecycle of one appointment request form.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// FallbackThreshold is the number of consecutive failures after which
// the caller should surface the direct phone line.
const FallbackThreshold = 3

// FallbackMessage points patients at the clinic phone line when
// submissions keep failing.
const FallbackMessage = "Call us directly at " + config.DefaultWhatsAppNumber + " for immediate assistance."

// ErrSubmissionInFlight is returned when Submit is called while a
// previous attempt has not finished.
var ErrSubmissionInFlight = errors.New("intake: submission already in flight")

// Result is the outcome of one Submit call.
type Result struct {
	State       State
	FieldErrors appointments.FieldErrors
	Err         *SubmissionError
	// SuggestFallback is set after FallbackThreshold consecutive failures.
	SuggestFallback bool
}

// Doer is the http.Client subset used by the Submitter.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Submitter drives an appointment request form through validation,
// sanitization and dispatch to the notification endpoint. It allows at
// most one in-flight submission and tracks consecutive failures so the
// caller can offer the phone fallback.
type Submitter struct {
	endpoint     string
	contactPhone string
	client       Doer
	logger       *logging.Logger

	mu       sync.Mutex
	state    State
	inFlight bool
	failures int
	draft    appointments.FormValues
}

// NewSubmitter creates a Submitter posting to the given notification
// endpoint URL.
func NewSubmitter(endpoint string, client Doer, logger *logging.Logger) *Submitter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{
		endpoint:     endpoint,
		contactPhone: config.DefaultWhatsAppNumber,
		client:       client,
		logger:       logger,
		state:        StateIdle,
	}
}

// SetContactPhone overrides the phone line named in the fallback
// guidance, normally from WHATSAPP_NUMBER.
func (s *Submitter) SetContactPhone(phone string) {
	if phone != "" {
		s.contactPhone = phone
	}
}

// FallbackGuidance is the message to surface once SuggestFallback is
// set on a Result.
func (s *Submitter) FallbackGuidance() string {
	return fmt.Sprintf("Call us directly at %s for immediate assistance.", s.contactPhone)
}

// State reports the current lifecycle state.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the preserved form values from the last failed attempt.
// After a success the draft is cleared.
func (s *Submitter) Draft() appointments.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Submit validates, sanitizes and dispatches one form. A second call
// while an attempt is in flight returns ErrSubmissionInFlight without
// touching the endpoint.
func (s *Submitter) Submit(ctx context.Context, form appointments.FormValues) (Result, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	s.inFlight = true
	s.state = StateValidating
	s.draft = form
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	normalized, fieldErrs := appointments.ValidateForm(form)
	if len(fieldErrs) > 0 {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return Result{State: StateIdle, FieldErrors: fieldErrs}, nil
	}

	s.mu.Lock()
	s.state = StateSubmitting
	s.mu.Unlock()

	payload := sanitize.CleanForm(
		normalized.Name,
		normalized.Email,
		normalized.Phone,
		normalized.Procedure,
		normalized.Date,
		normalized.Message,
	)

	if err := s.dispatch(ctx, payload); err != nil {
		classified := Classify(err)
		s.mu.Lock()
		s.state = StateFailed
		s.failures++
		failures := s.failures
		suggest := failures >= FallbackThreshold
		s.mu.Unlock()

		s.logger.Error("appointment submission failed",
			"error", err,
			"type", string(classified.Type),
			"consecutive_failures", failures,
		)
		return Result{State: StateFailed, Err: &classified, SuggestFallback: suggest}, nil
	}

	s.mu.Lock()
	s.state = StateSucceeded
	s.failures = 0
	s.draft = appointments.FormValues{}
	s.mu.Unlock()

	s.logger.Info("appointment request submitted", "procedure", payload.Procedure)
	return Result{State: StateSucceeded}, nil
}

func (s *Submitter) dispatch(ctx context.Context, payload sanitize.FormInput) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("intake: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("intake: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("intake: network: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("intake: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
