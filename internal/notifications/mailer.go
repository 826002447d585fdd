package notifications

import (
	"fmt"
	"net/smtp"

	"github.com/cascade-digital/agency-backend/config"
	"github.com/cascade-digital/agency-backend/internal/logging"
)

// Mailer sends multipart text+html email over SMTP. When disabled it logs
// instead of sending, which is the development default.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

// SendHTML sends an HTML email with a plain text fallback and an optional
// Reply-To address.
func (m *Mailer) SendHTML(to, replyTo, subject, htmlBody, textBody string) error {
	if !m.cfg.Enabled {
		logging.L.Info().Str("to", to).Str("subject", subject).Msg("email disabled, skipping send")
		return nil
	}

	if m.cfg.Host == "" || m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	boundary := "----=_NextPart_1234567890"

	message := fmt.Sprintf("From: %s\r\n", m.cfg.FromEmail) +
		fmt.Sprintf("To: %s\r\n", to)
	if replyTo != "" {
		message += fmt.Sprintf("Reply-To: %s\r\n", replyTo)
	}
	message += fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary) +
		"\r\n"

	message += fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		textBody + "\r\n"

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"Content-Transfer-Encoding: quoted-printable\r\n" +
			"\r\n" +
			htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
