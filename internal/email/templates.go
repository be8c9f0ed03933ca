package email

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"
)

// Renderer renders the built-in HTML templates.
type Renderer struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

var builtinTemplates = map[string]string{
	"verification": `<h2>Welcome to BeCreative!</h2>
<p>Please confirm your email address by clicking the link below:</p>
<p><a href="{{.VerifyURL}}">Verify my email</a></p>
<p>If you did not create an account, you can ignore this message.</p>`,

	"booking_confirmation": `<h2>You're booked!</h2>
<p>Your spot in <strong>{{.ClassName}}</strong> is confirmed.</p>
<p>Starts at {{.ScheduledAt}}.</p>`,

	"booking_cancellation": `<h2>Booking cancelled</h2>
<p>Your booking for <strong>{{.ClassName}}</strong> has been cancelled.</p>
{{if .RefundedCredits}}<p>{{.RefundedCredits}} credits were returned to your balance.</p>{{end}}`,

	"subscription_renewed": `<h2>Credits added</h2>
<p>Your {{.PlanName}} plan renewed and {{.Credits}} credits were added to your balance.</p>`,
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(templateName string, data TemplateData) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[templateName]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown template: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateName, err)
	}
	return buf.String(), nil
}
