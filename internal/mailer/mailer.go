// Package mailer sends templated HTML notification emails.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Template names the body rendered for a notification.
type Template string

const (
	TemplateWelcome          Template = "welcome"
	TemplatePasswordReset    Template = "password_reset"
	TemplateBookingRequested Template = "booking_requested"
	TemplateBookingConfirmed Template = "booking_confirmed"
	TemplateBookingCancelled Template = "booking_cancelled"
	TemplateBookingTracking  Template = "booking_tracking"
	TemplateBookingCompleted Template = "booking_completed"
)

// Mailer delivers a rendered template to a recipient.
type Mailer interface {
	Send(ctx context.Context, to string, tmpl Template, data map[string]string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host      string
	port      int
	user      string
	password  string
	from      string
	templates *template.Template
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		from:      from,
		templates: template.Must(template.New("mail").Parse(mailTemplates)),
	}
}

// subjects maps templates to their subject lines.
var subjects = map[Template]string{
	TemplateWelcome:          "Welcome to Krushak",
	TemplatePasswordReset:    "Reset your Krushak password",
	TemplateBookingRequested: "New booking request",
	TemplateBookingConfirmed: "Your booking is confirmed",
	TemplateBookingCancelled: "Booking cancelled",
	TemplateBookingTracking:  "Equipment handed over",
	TemplateBookingCompleted: "Booking completed",
}

// Send renders the template and delivers it. The context is honored only up
// to the SMTP dial; net/smtp does not support mid-conversation cancellation.
func (m *SMTPMailer) Send(ctx context.Context, to string, tmpl Template, data map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, ok := subjects[tmpl]
	if !ok {
		return fmt.Errorf("unknown mail template %q", tmpl)
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, string(tmpl), data); err != nil {
		return fmt.Errorf("failed to render template %q: %w", tmpl, err)
	}

	msg := strings.Builder{}
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
}

var _ Mailer = (*SMTPMailer)(nil)
