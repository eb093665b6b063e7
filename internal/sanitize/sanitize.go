// Package sanitize neutralizes HTML and script-bearing constructs in
// user-supplied text before it is stored or interpolated into email
// bodies.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Clean strips all markup from s, dropping script and style content
// entirely, and entity-escapes the remaining text. Cleaning already
// clean text yields the same text, and plain alphanumeric content is
// never altered.
func Clean(s string) string {
	return policy.Sanitize(s)
}

// FormInput is a sanitized appointment form payload.
type FormInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Procedure string `json:"procedure"`
	Date      string `json:"date"`
	Message   string `json:"message"`
}

// CleanForm trims and sanitizes every user-supplied field of an
// appointment form. The email is additionally lower-cased.
func CleanForm(name, email, phone, procedure, date, message string) FormInput {
	return FormInput{
		Name:      Clean(strings.TrimSpace(name)),
		Email:     strings.ToLower(Clean(strings.TrimSpace(email))),
		Phone:     Clean(strings.TrimSpace(phone)),
		Procedure: Clean(strings.TrimSpace(procedure)),
		Date:      strings.TrimSpace(date),
		Message:   Clean(strings.TrimSpace(message)),
	}
}
