package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail over SMTP.
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
	appURL   string
}

func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer, appURL string) *SMTPProvider {
	return &SMTPProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
		appURL:   appURL,
	}
}

func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	from := email.From
	if from == "" {
		from = p.config.From
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) sendTemplate(to, subject, templateName string, data TemplateData) error {
	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	return p.Send(&Email{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

func (p *SMTPProvider) SendVerification(to string, token string) error {
	return p.sendTemplate(to, "Verify your BeCreative account", "verification", TemplateData{
		"VerifyURL": fmt.Sprintf("%s/verify?token=%s", p.appURL, token),
	})
}

func (p *SMTPProvider) SendBookingConfirmation(to string, className string, scheduledAt time.Time) error {
	return p.sendTemplate(to, "Booking confirmed: "+className, "booking_confirmation", TemplateData{
		"ClassName":   className,
		"ScheduledAt": scheduledAt.Format("Mon, 2 Jan 2006 15:04 MST"),
	})
}

func (p *SMTPProvider) SendBookingCancellation(to string, className string, refundedCredits int) error {
	return p.sendTemplate(to, "Booking cancelled: "+className, "booking_cancellation", TemplateData{
		"ClassName":       className,
		"RefundedCredits": refundedCredits,
	})
}

func (p *SMTPProvider) SendSubscriptionRenewed(to string, planName string, credits int) error {
	return p.sendTemplate(to, "Your monthly credits are here", "subscription_renewed", TemplateData{
		"PlanName": planName,
		"Credits":  credits,
	})
}

func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}
	if p.config.Port == 0 {
		return fmt.Errorf("smtp port is not configured")
	}
	return nil
}

// NoopProvider discards all email. Used when SMTP is not configured.
type NoopProvider struct{}

func (NoopProvider) Send(*Email) error                                     { return nil }
func (NoopProvider) SendVerification(string, string) error                 { return nil }
func (NoopProvider) SendBookingConfirmation(string, string, time.Time) error { return nil }
func (NoopProvider) SendBookingCancellation(string, string, int) error     { return nil }
func (NoopProvider) SendSubscriptionRenewed(string, string, int) error     { return nil }
func (NoopProvider) Validate() error                                       { return nil }
