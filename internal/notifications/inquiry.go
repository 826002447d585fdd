package notifications

import (
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
	"github.com/cascade-digital/agency-backend/internal/logging"
)

// InquiryNotifier sends the two post-persist notifications: an internal
// alert and a client acknowledgment. Both are best-effort, at most one
// attempt each; failures are logged and swallowed.
type InquiryNotifier struct {
	mailer        *Mailer
	adminEmail    string
	siteName      string
	siteURL       string
	backOfficeURL string
}

func NewInquiryNotifier(mailer *Mailer, adminEmail, siteName, siteURL, backOfficeURL string) *InquiryNotifier {
	return &InquiryNotifier{
		mailer:        mailer,
		adminEmail:    adminEmail,
		siteName:      siteName,
		siteURL:       siteURL,
		backOfficeURL: backOfficeURL,
	}
}

// Notify fires both notifications. Callers run it off the request path.
func (n *InquiryNotifier) Notify(inq *domain.Inquiry, serviceTitle string) {
	msgID := uuid.NewString()

	if err := n.sendAdminAlert(inq, serviceTitle); err != nil {
		logging.L.Error().Err(err).
			Str("message_id", msgID).
			Str("inquiry", inq.PublicID).
			Msg("admin notification failed")
	} else {
		logging.L.Info().
			Str("message_id", msgID).
			Str("inquiry", inq.PublicID).
			Msg("admin notification sent")
	}

	if err := n.sendClientAck(inq); err != nil {
		logging.L.Error().Err(err).
			Str("message_id", msgID).
			Str("inquiry", inq.PublicID).
			Str("to", inq.Email).
			Msg("client acknowledgment failed")
	} else {
		logging.L.Info().
			Str("message_id", msgID).
			Str("inquiry", inq.PublicID).
			Msg("client acknowledgment sent")
	}
}

func (n *InquiryNotifier) sendAdminAlert(inq *domain.Inquiry, serviceTitle string) error {
	subject, htmlBody, textBody := n.adminAlertBodies(inq, serviceTitle)
	return n.mailer.SendHTML(n.adminEmail, inq.Email, subject, htmlBody, textBody)
}

// adminAlertBodies renders the internal alert. Submitted field values go
// into the HTML body escaped; the plain-text body carries them raw.
func (n *InquiryNotifier) adminAlertBodies(inq *domain.Inquiry, serviceTitle string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("New Inquiry: %s", inq.ProjectType)
	if serviceTitle != "" {
		subject += fmt.Sprintf(" (%s)", serviceTitle)
	}

	recordURL := fmt.Sprintf("%s/inquiries/%s", strings.TrimRight(n.backOfficeURL, "/"), inq.PublicID)

	rows := []struct{ label, value string }{
		{"Name", inq.FullName},
		{"Email", inq.Email},
		{"Phone", orDash(inq.Phone)},
		{"Company", orDash(inq.CompanyName)},
		{"Country", orDash(inq.Country)},
		{"Project type", inq.ProjectType},
		{"Timeline", inq.Timeline.Label()},
		{"Budget", inq.BudgetRange.Label()},
		{"Reference URL", orDash(inq.ReferenceURL)},
		{"Priority", string(inq.Priority)},
		{"Spam score", fmt.Sprintf("%d/10", inq.SpamScore)},
		{"Submitted", inq.CreatedAt.Format("January 2, 2006 at 3:04 PM")},
	}

	var htmlRows, textRows strings.Builder
	for _, row := range rows {
		htmlRows.WriteString(fmt.Sprintf("<p><strong>%s:</strong> %s</p>\n", row.label, html.EscapeString(row.value)))
		textRows.WriteString(fmt.Sprintf("%s: %s\n", row.label, row.value))
	}

	spamNote := ""
	if inq.IsSpam {
		spamNote = `<p style="color: #B91C1C;"><strong>Flagged as likely spam.</strong></p>`
	}

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #1C5D99;">New Inquiry Received</h2>
        %s
        <div style="background: #F8FAFC; padding: 20px; border-radius: 8px; margin: 20px 0;">
            %s
        </div>
        <div style="background: #FFFFFF; padding: 20px; border-left: 4px solid #1C5D99; border-radius: 4px; margin: 20px 0;">
            <h3 style="color: #0D1A2D; margin-top: 0;">Project Description:</h3>
            <p style="white-space: pre-wrap;">%s</p>
        </div>
        <p><a href="%s" style="color: #1C5D99;">Open in back office</a></p>
        <p style="color: #64748B; font-size: 14px;">Inquiry ID: %s</p>
    </div>
</body>
</html>`, spamNote, htmlRows.String(), html.EscapeString(inq.ProjectDescription), recordURL, inq.PublicID)

	textBody = fmt.Sprintf(`New Inquiry Received

%s
Project Description:
%s

Back office: %s
Inquiry ID: %s`, textRows.String(), inq.ProjectDescription, recordURL, inq.PublicID)

	return subject, htmlBody, textBody
}

func (n *InquiryNotifier) sendClientAck(inq *domain.Inquiry) error {
	subject, htmlBody, textBody := n.clientAckBodies(inq)
	return n.mailer.SendHTML(inq.Email, n.adminEmail, subject, htmlBody, textBody)
}

func (n *InquiryNotifier) clientAckBodies(inq *domain.Inquiry) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("We've Received Your Project Inquiry - %s", n.siteName)

	firstName := inq.FullName
	if i := strings.IndexByte(firstName, ' '); i > 0 {
		firstName = firstName[:i]
	}

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #1C5D99;">Thank you, %s!</h2>
        <p>We've received your inquiry about <strong>%s</strong> and our team is
        already reviewing the details. You can expect to hear back from us within
        24 hours.</p>
        <p>In the meantime, feel free to reply to this email with anything you'd
        like to add.</p>
        <p style="color: #64748B; font-size: 14px;">— The %s Team<br/>%s</p>
    </div>
</body>
</html>`, html.EscapeString(firstName), html.EscapeString(inq.ProjectType), n.siteName, n.siteURL)

	textBody = fmt.Sprintf(`Thank you, %s!

We've received your inquiry about %s and our team is already reviewing the
details. You can expect to hear back from us within 24 hours.

In the meantime, feel free to reply to this email with anything you'd like
to add.

— The %s Team
%s`, firstName, inq.ProjectType, n.siteName, n.siteURL)

	return subject, htmlBody, textBody
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "—"
	}
	return v
}
