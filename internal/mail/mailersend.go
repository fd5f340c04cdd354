package mail

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSend struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSend {
	return &MailerSend{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
	}
}

func (m *MailerSend) send(ctx context.Context, toEmail, subject, html string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetHTML(html)

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (m *MailerSend) SendVerification(ctx context.Context, email, code string) error {
	return m.send(ctx, email, "Verify your email - Plateful", verificationHTML(code))
}

func (m *MailerSend) SendWelcome(ctx context.Context, email, name string) error {
	return m.send(ctx, email, "Welcome to Plateful", welcomeHTML(name))
}

func (m *MailerSend) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	return m.send(ctx, email, "Reset your password", passwordResetHTML(resetURL))
}

func (m *MailerSend) SendResetSuccess(ctx context.Context, email string) error {
	return m.send(ctx, email, "Password reset successfully", resetSuccessHTML())
}
