package appointments

import (
	"time"
)

// Status is the lifecycle state of an appointment request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid appointment status.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Valid reports whether s is a member of the status enum.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// validTransitions is the explicit status transition table. Completed
// and cancelled are terminal: once an appointment is closed out it
// cannot return to the active pipeline.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusPending, StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is legal.
// A no-op transition (same status) is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a patient's request for a consultation or procedure.
type Appointment struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Procedure     string    `json:"procedure"`
	PreferredDate string    `json:"preferred_date,omitempty"`
	Message       string    `json:"message,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewAppointment is the payload for creating an appointment. The server
// assigns id, timestamps, and the initial pending status.
type NewAppointment struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Procedure     string `json:"procedure"`
	PreferredDate string `json:"preferred_date"`
	Message       string `json:"message"`
}

// UpdateRequest carries partial changes to an appointment. Nil fields
// are left untouched; updated_at is bumped on every applied update.
type UpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Procedure     *string `json:"procedure,omitempty"`
	PreferredDate *string `json:"preferred_date,omitempty"`
	Message       *string `json:"message,omitempty"`
	Status        *Status `json:"status,omitempty"`
}

// OtherProcedure is the catch-all catalog entry for patients whose
// procedure is not listed.
const OtherProcedure = "Other/Consultation Only"

// ProcedureCatalog is the clinic's fixed list of offered procedures,
// grouped the way the booking form presents them.
var ProcedureCatalog = map[string][]string{
	"Breast Procedures": {
		"Breast Reduction",
		"Breast Augmentation (Implants)",
		"Breast Augmentation (Fat Transfer)",
		"Mastopexy (Breast Lift)",
		"Nipple Revision",
		"Breast Reconstruction",
		"Breast Asymmetry Correction",
	},
	"Body Contouring": {
		"360 Liposuction",
		"Abdominoplasty (Tummy Tuck)",
		"Lipoabdominoplasty",
		"Brazilian Butt Lift (BBL)",
		"Body Lift",
		"Thigh Lift",
		"Arm Lift (Brachioplasty)",
		"General Liposuction",
	},
	"Facial Procedures": {
		"Rhinoplasty",
		"Face Lift",
		"Mini Face Lift",
		"Brow Lift",
		"Eyelid Surgery",
		"Lip Procedures",
	},
	"Gynecomastia": {
		"Gynecomastia Treatment (Lipo + Excision)",
		"Gynecomastia Treatment (Lipo Only)",
		"Gynecomastia Treatment (Excision Only)",
	},
	"Hair & Skin": {
		"Hair Transplant",
		"Beard Hair Transplant",
		"Laser Hair Removal",
		"PRP Stem Cell Treatment",
		"Nanofat Facial Rejuvenation",
		"Morpheus 8 Treatment",
	},
	"Intimate Procedures": {
		"Penile Enlargement",
		"Penile PRP Treatment",
		"Vaginoplasty",
	},
	"Other Procedures": {
		OtherProcedure,
	},
}

var knownProcedures = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, list := range ProcedureCatalog {
		for _, p := range list {
			m[p] = struct{}{}
		}
	}
	return m
}()

// KnownProcedure reports whether name appears in the procedure catalog.
func KnownProcedure(name string) bool {
	_, ok := knownProcedures[name]
	return ok
}
