package mail

import (
	"context"

	"github.com/plateful/plateful/internal/log"
)

// Mailer sends the transactional emails of the credential lifecycle.
type Mailer interface {
	SendVerification(ctx context.Context, email, code string) error
	SendWelcome(ctx context.Context, email, name string) error
	SendPasswordReset(ctx context.Context, email, resetURL string) error
	SendResetSuccess(ctx context.Context, email string) error
}

// DevMailer logs instead of sending. Used when MAILERSEND_API_KEY is unset
// (local dev, tests).
type DevMailer struct{}

func (DevMailer) SendVerification(_ context.Context, email, code string) error {
	log.Infof("[MAIL] verification to=%s code=%s", email, code)
	return nil
}

func (DevMailer) SendWelcome(_ context.Context, email, name string) error {
	log.Infof("[MAIL] welcome to=%s name=%s", email, name)
	return nil
}

func (DevMailer) SendPasswordReset(_ context.Context, email, resetURL string) error {
	log.Infof("[MAIL] password reset to=%s url=%s", email, resetURL)
	return nil
}

func (DevMailer) SendResetSuccess(_ context.Context, email string) error {
	log.Infof("[MAIL] reset success to=%s", email)
	return nil
}
