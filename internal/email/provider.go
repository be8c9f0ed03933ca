package email

import "time"

// Provider sends transactional email.
type Provider interface {
	// Send delivers a fully built message.
	Send(email *Email) error

	// SendVerification sends the account verification link.
	SendVerification(to string, token string) error

	// SendBookingConfirmation notifies a student that their seat is reserved.
	SendBookingConfirmation(to string, className string, scheduledAt time.Time) error

	// SendBookingCancellation notifies a student that a booking was cancelled.
	SendBookingCancellation(to string, className string, refundedCredits int) error

	// SendSubscriptionRenewed notifies a student of a monthly credit grant.
	SendSubscriptionRenewed(to string, planName string, credits int) error

	// Validate checks provider configuration.
	Validate() error
}

// TemplateRenderer renders named templates with data.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
