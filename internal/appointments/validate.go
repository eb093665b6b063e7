package appointments

import (
	"regexp"
	"strings"
	"time"
)

// FormValues is a candidate appointment form submission, pre-validation.
type FormValues struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Procedure string `json:"procedure"`
	Date      string `json:"date"`
	Message   string `json:"message"`
}

// FieldErrors maps a form field name to a human-readable error message.
type FieldErrors map[string]string

// Permissive international phone shape: optional +, digit groups
// separated by spaces, dashes, dots, or parentheses.
var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?(?:[-\s.]?[(]?[0-9]{1,4}[)]?){0,4}[-\s.]?[0-9]{1,9}$`)

// Email shape check: something@something.something, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateForm checks a candidate form submission against the intake
// rules and returns the normalized values (trimmed, email lower-cased)
// together with per-field errors. An empty FieldErrors map means the
// form passed. The function performs no I/O and is idempotent.
func ValidateForm(in FormValues) (FormValues, FieldErrors) {
	errs := FieldErrors{}

	out := FormValues{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Procedure: strings.TrimSpace(in.Procedure),
		Date:      strings.TrimSpace(in.Date),
		Message:   strings.TrimSpace(in.Message),
	}

	if len(out.Name) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	} else if len(out.Name) > 100 {
		errs["name"] = "Name must be less than 100 characters"
	}

	if len(out.Email) > 255 {
		errs["email"] = "Email must be less than 255 characters"
	} else if !emailPattern.MatchString(out.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	if digitCount(out.Phone) < 7 {
		errs["phone"] = "Phone number must be at least 7 digits"
	} else if len(out.Phone) > 20 {
		errs["phone"] = "Phone number must be less than 20 characters"
	} else if !phonePattern.MatchString(out.Phone) {
		errs["phone"] = "Please enter a valid phone number (e.g., +255 793 145 167)"
	}

	if out.Procedure == "" {
		errs["procedure"] = "Please select a procedure of interest"
	} else if len(out.Procedure) > 100 {
		errs["procedure"] = "Procedure name must be less than 100 characters"
	} else if !KnownProcedure(out.Procedure) {
		errs["procedure"] = "Please select a procedure from the list or " + OtherProcedure
	}

	if out.Date != "" {
		if _, err := time.Parse("2006-01-02", out.Date); err != nil {
			errs["date"] = "Preferred date must be a valid date"
		}
	}

	if len(out.Message) > 1000 {
		errs["message"] = "Message must be less than 1000 characters"
	}

	return out, errs
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
