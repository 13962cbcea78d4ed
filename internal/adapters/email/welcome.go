package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var welcomeDoctorTmpl = template.Must(template.New("welcome").Parse(`<p>Dear Dr. {{.Name}},</p>
<p>An administrator has added you to Hospital CMS as a {{.Specialty}} specialist.</p>
<p>You can now sign in with this email address to view your appointments.</p>
{{if .Times}}<p>Your listed availability: {{.Times}}.</p>{{end}}
<p>Hospital CMS</p>`))

// WelcomeDoctor builds the message sent to a newly registered doctor.
// PRE: to is a valid address
// POST: Returns a message whose HTML escapes every field
func WelcomeDoctor(to, name, specialty string, times []string) (Message, error) {
	var buf bytes.Buffer
	err := welcomeDoctorTmpl.Execute(&buf, struct {
		Name, Specialty, Times string
	}{name, specialty, strings.Join(times, ", ")})
	if err != nil {
		return Message{}, fmt.Errorf("render welcome email: %w", err)
	}
	return Message{
		To:      []string{to},
		Subject: "Welcome to Hospital CMS",
		HTML:    buf.String(),
	}, nil
}
