package mailer

import (
	"errors"

	"github.com/oksasatya/storefront/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template with Data, or Subject with Text and/or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // password_reset, order_confirmation
	Data     map[string]any `json:"data,omitempty"`
}

// Content returns the subject and bodies to send, rendering Template when set.
func (j EmailJob) Content() (subject, text, html string, err error) {
	if j.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if j.Template != "" {
		return templates.Render(j.Template, j.Data)
	}
	if j.Subject == "" || (j.Text == "" && j.HTML == "") {
		return "", "", "", errors.New("email job needs a template or a subject with text/html")
	}
	return j.Subject, j.Text, j.HTML, nil
}
