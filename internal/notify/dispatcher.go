package notify

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/refinesurgery/clinic-platform/internal/config"
	"github.com/refinesurgery/clinic-platform/internal/observability/metrics"
	"github.com/refinesurgery/clinic-platform/internal/sanitize"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// AppointmentCreator persists a pending appointment record after a
// successful dispatch.
type AppointmentCreator func(ctx context.Context, form sanitize.FormInput) error

// Dispatcher sends the operator notification and patient confirmation
// emails for one appointment request, then best-effort persists the
// appointment.
type Dispatcher struct {
	sender        EmailSender
	operatorEmail string
	contactPhone  string
	appointments  AppointmentCreator
	metrics       *metrics.IntakeMetrics
	logger        *logging.Logger
}

// NewDispatcher creates a Dispatcher. appointments may be nil, in which
// case dispatch is email-only.
func NewDispatcher(sender EmailSender, operatorEmail string, appointments AppointmentCreator, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		sender:        sender,
		operatorEmail: operatorEmail,
		contactPhone:  config.DefaultWhatsAppNumber,
		appointments:  appointments,
		logger:        logger,
	}
}

// SetContactPhone overrides the clinic phone shown in the patient
// confirmation.
func (d *Dispatcher) SetContactPhone(phone string) {
	if phone != "" {
		d.contactPhone = phone
	}
}

// SetMetrics records per-email send outcomes on m. Nil disables
// recording.
func (d *Dispatcher) SetMetrics(m *metrics.IntakeMetrics) {
	d.metrics = m
}

type emailData struct {
	Name         string
	Email        string
	Phone        string
	Procedure    string
	Date         string
	Message      string
	ContactPhone string
	Year         int
}

var operatorTemplate = template.Must(template.New("operator").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(135deg, #C41E7D 0%, #E91E8C 100%); color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
  .content { background: #f9f9f9; padding: 20px; border: 1px solid #ddd; border-top: none; border-radius: 0 0 8px 8px; }
  .field { margin-bottom: 15px; }
  .label { font-weight: bold; color: #C41E7D; }
  .value { margin-top: 5px; word-break: break-word; }
  .footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>New Appointment Request</h1>
    <p>Refine Plastic &amp; Aesthetic Surgery Centre</p>
  </div>
  <div class="content">
    <div class="field"><div class="label">Patient Name:</div><div class="value">{{.Name}}</div></div>
    <div class="field"><div class="label">Email Address:</div><div class="value">{{.Email}}</div></div>
    <div class="field"><div class="label">Phone Number:</div><div class="value">{{.Phone}}</div></div>
    {{if .Procedure}}<div class="field"><div class="label">Procedure of Interest:</div><div class="value">{{.Procedure}}</div></div>{{end}}
    {{if .Date}}<div class="field"><div class="label">Preferred Date:</div><div class="value">{{.Date}}</div></div>{{end}}
    {{if .Message}}<div class="field"><div class="label">Additional Message:</div><div class="value">{{.Message}}</div></div>{{end}}
  </div>
  <div class="footer">
    <p>This email was sent from the website appointment form.</p>
    <p>&copy; {{.Year}} Refine Plastic &amp; Aesthetic Surgery Centre</p>
  </div>
</div>
</body>
</html>`))

var patientTemplate = template.Must(template.New("patient").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(135deg, #C41E7D 0%, #E91E8C 100%); color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
  .content { background: #f9f9f9; padding: 20px; border: 1px solid #ddd; border-top: none; border-radius: 0 0 8px 8px; }
  .footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Thank You for Your Request</h1>
    <p>Refine Plastic &amp; Aesthetic Surgery Centre</p>
  </div>
  <div class="content">
    <p>Dear {{.Name}},</p>
    <p>Thank you for your interest in Refine Plastic &amp; Aesthetic Surgery Centre. We have received your appointment request and our team will contact you within 24 hours to confirm your consultation.</p>
    <p>If you have any urgent questions, please don't hesitate to call us at <strong>{{.ContactPhone}}</strong>.</p>
    <p>Best regards,<br>The Refine Team</p>
  </div>
  <div class="footer">
    <p>&copy; {{.Year}} Refine Plastic &amp; Aesthetic Surgery Centre</p>
    <p>info@refineplasticsurgerytz.com | refineplasticsurgerytz.com</p>
  </div>
</div>
</body>
</html>`))

// Dispatch sends the operator notification, then the patient
// confirmation, then persists the appointment. Either email failing
// fails the whole dispatch; only a persistence failure is logged and
// tolerated.
func (d *Dispatcher) Dispatch(ctx context.Context, form sanitize.FormInput) error {
	data := emailData{
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Procedure:    form.Procedure,
		Date:         form.Date,
		Message:      form.Message,
		ContactPhone: d.contactPhone,
		Year:         time.Now().Year(),
	}

	var operatorHTML strings.Builder
	if err := operatorTemplate.Execute(&operatorHTML, data); err != nil {
		return fmt.Errorf("notify: render operator email: %w", err)
	}

	err := d.sender.Send(ctx, EmailMessage{
		To:          d.operatorEmail,
		Subject:     fmt.Sprintf("New Appointment Request from %s", form.Name),
		Body:        operatorText(form),
		HTML:        operatorHTML.String(),
		ReplyTo:     form.Email,
		ReplyToName: form.Name,
	})
	if err != nil {
		d.metrics.IncEmail("operator", "failed")
		return fmt.Errorf("notify: operator email: %w", err)
	}
	d.metrics.IncEmail("operator", "sent")

	var patientHTML strings.Builder
	if err := patientTemplate.Execute(&patientHTML, data); err != nil {
		return fmt.Errorf("notify: render patient confirmation: %w", err)
	}
	err = d.sender.Send(ctx, EmailMessage{
		To:      form.Email,
		ToName:  form.Name,
		Subject: "Appointment Request Received - Refine Plastic Surgery",
		Body:    patientText(form, d.contactPhone),
		HTML:    patientHTML.String(),
	})
	if err != nil {
		d.metrics.IncEmail("patient", "failed")
		return fmt.Errorf("notify: patient confirmation: %w", err)
	}
	d.metrics.IncEmail("patient", "sent")

	if d.appointments != nil {
		if err := d.appointments(ctx, form); err != nil {
			d.logger.Error("failed to persist appointment request", "error", err, "email", form.Email)
		}
	}
	return nil
}

func operatorText(form sanitize.FormInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New appointment request.\n\nPatient Name: %s\nEmail: %s\nPhone: %s\n", form.Name, form.Email, form.Phone)
	if form.Procedure != "" {
		fmt.Fprintf(&b, "Procedure of Interest: %s\n", form.Procedure)
	}
	if form.Date != "" {
		fmt.Fprintf(&b, "Preferred Date: %s\n", form.Date)
	}
	if form.Message != "" {
		fmt.Fprintf(&b, "Additional Message: %s\n", form.Message)
	}
	return b.String()
}

func patientText(form sanitize.FormInput, contactPhone string) string {
	return fmt.Sprintf("Dear %s,\n\nThank you for your interest in Refine Plastic & Aesthetic Surgery Centre. "+
		"We have received your appointment request and our team will contact you within 24 hours to confirm your consultation.\n\n"+
		"If you have any urgent questions, please call us at %s.\n\nBest regards,\nThe Refine Team\n", form.Name, contactPhone)
}
