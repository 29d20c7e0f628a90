package mail

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
	"unicode/utf8"
)

const summaryLimit = 150

// ContactData feeds the contact form templates.
type ContactData struct {
	SiteName    string
	Name        string
	Email       string
	Phone       string
	Service     string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

// Summary is the message cut to 150 characters, with "..." when truncated.
func (d ContactData) Summary() string {
	if utf8.RuneCountInString(d.Message) <= summaryLimit {
		return d.Message
	}
	return string([]rune(d.Message)[:summaryLimit]) + "..."
}

var notificationText = texttemplate.Must(texttemplate.New("notification").Parse(`New contact form submission

Name: {{.Name}}
Email: {{.Email}}
{{- if .Phone}}
Phone: {{.Phone}}{{end}}
{{- if .Service}}
Service: {{.Service}}{{end}}
Subject: {{.Subject}}

Message:
{{.Message}}

Submitted at {{.SubmittedAt.Format "2006-01-02 15:04:05 MST"}}
`))

var notificationHTML = htmltemplate.Must(htmltemplate.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h1 style="color: #1e40af;">New contact form submission</h1>
  <table cellpadding="4">
    <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
    <tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
    {{if .Phone}}<tr><td><strong>Phone</strong></td><td>{{.Phone}}</td></tr>{{end}}
    {{if .Service}}<tr><td><strong>Service</strong></td><td>{{.Service}}</td></tr>{{end}}
    <tr><td><strong>Subject</strong></td><td>{{.Subject}}</td></tr>
  </table>
  <h2 style="color: #1e40af;">Message</h2>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  <p style="color: #6b7280; font-size: 12px;">Submitted at {{.SubmittedAt.Format "2006-01-02 15:04:05 MST"}}</p>
</body>
</html>
`))

var autoReplyText = texttemplate.Must(texttemplate.New("auto-reply").Parse(`Hi {{.Name}},

Thank you for reaching out to us! We've received your message about "{{.Subject}}" and one of our team members will get back to you within 24 hours.

Your message:
"{{.Summary}}"

Best regards,
{{.SiteName}}
`))

var autoReplyHTML = htmltemplate.Must(htmltemplate.New("auto-reply").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <p>Hi {{.Name}},</p>
  <p>Thank you for reaching out to us! We've received your message about "<strong>{{.Subject}}</strong>" and one of our team members will get back to you within 24 hours.</p>
  <blockquote style="border-left: 4px solid #1e40af; margin: 0; padding-left: 12px; font-style: italic;">"{{.Summary}}"</blockquote>
  <p>Best regards,<br>{{.SiteName}}</p>
</body>
</html>
`))

// Notification builds the message sent to the site owner.
func Notification(to string, d ContactData) (Message, error) {
	text, html, err := render(notificationText, notificationHTML, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		ReplyTo: d.Email,
		Subject: "New Contact Form Submission: " + d.Subject,
		Text:    text,
		HTML:    html,
	}, nil
}

// AutoReply builds the confirmation sent back to the submitter.
func AutoReply(d ContactData) (Message, error) {
	text, html, err := render(autoReplyText, autoReplyHTML, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      d.Email,
		Subject: "Thank you for contacting " + d.SiteName + " - We'll be in touch soon!",
		Text:    text,
		HTML:    html,
	}, nil
}

func render(text *texttemplate.Template, html *htmltemplate.Template, d ContactData) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := text.Execute(&tb, d); err != nil {
		return "", "", err
	}
	if err := html.Execute(&hb, d); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}
