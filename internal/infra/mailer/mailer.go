// Package mailer delivers workflow notifications over SMTP. Each approval
// level has its own inbox; a batch advancing a level produces exactly one
// message to that level's approver listing every surviving record.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"venuebook/internal/pkg/config"
	"venuebook/internal/pkg/jwt"
	"venuebook/internal/usecase/commands"
)

type smtpDispatcher struct {
	cfg       config.SMTPConfig
	approvals config.ApprovalsConfig
	tokens    *jwt.Service
}

// NewDispatcher returns the SMTP-backed dispatcher, or a log-only one when
// no SMTP host is configured.
func NewDispatcher(cfg config.SMTPConfig, approvals config.ApprovalsConfig, tokens *jwt.Service) commands.NotificationDispatcher {
	if cfg.Host == "" {
		slog.Info("SMTP host not configured, notifications will only be logged")
		return &logDispatcher{}
	}
	return &smtpDispatcher{cfg: cfg, approvals: approvals, tokens: tokens}
}

func (d *smtpDispatcher) NotifyApprovalRequest(_ context.Context, records []commands.BookingNotice, level int) error {
	if len(records) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Booking approval required (level %d)", level)
	var body strings.Builder
	fmt.Fprintf(&body, "<p>The following booking request awaits your level %d approval:</p>", level)
	body.WriteString(renderRecordTable(records))
	body.WriteString("<p>Actions per venue:</p><ul>")
	for _, r := range records {
		// Each link carries its own signed token so approvers can act
		// straight from the inbox without a session.
		approveToken, err := d.tokens.GenerateActionToken(r.BookingID, jwt.ActionApprove)
		if err != nil {
			slog.Warn("could not sign approve link", "booking_id", r.BookingID, "error", err)
			fmt.Fprintf(&body, "<li>%s: booking %s</li>", escape(r.VenueName), r.BookingID)
			continue
		}
		rejectToken, err := d.tokens.GenerateActionToken(r.BookingID, jwt.ActionReject)
		if err != nil {
			slog.Warn("could not sign reject link", "booking_id", r.BookingID, "error", err)
			fmt.Fprintf(&body, "<li>%s: booking %s</li>", escape(r.VenueName), r.BookingID)
			continue
		}
		fmt.Fprintf(&body, `<li>%s: <a href="%s/api/bookings/%s/approve?token=%s">Approve</a> | <a href="%s/api/bookings/%s/reject?token=%s">Reject</a></li>`,
			escape(r.VenueName),
			d.approvals.ActionBaseURL, r.BookingID, approveToken,
			d.approvals.ActionBaseURL, r.BookingID, rejectToken,
		)
	}
	body.WriteString("</ul>")

	return d.send(d.approvals.ApproverEmail(level), subject, body.String())
}

func (d *smtpDispatcher) NotifyApproved(_ context.Context, recipientEmail string, record commands.BookingNotice) error {
	subject := "Your venue booking is confirmed"
	body := fmt.Sprintf(
		"<p>Your booking of %s has passed all approval levels and is confirmed.</p>%s",
		escape(record.VenueName),
		renderRecordTable([]commands.BookingNotice{record}),
	)
	return d.send(recipientEmail, subject, body)
}

func (d *smtpDispatcher) NotifyRejected(_ context.Context, recipientEmail string, record commands.BookingNotice, reason string, level int) error {
	subject := "Your venue booking was rejected"
	body := fmt.Sprintf(
		"<p>Your booking of %s was rejected at approval level %d.</p><p>Reason: %s</p>%s",
		escape(record.VenueName), level, escape(reason),
		renderRecordTable([]commands.BookingNotice{record}),
	)
	return d.send(recipientEmail, subject, body)
}

func (d *smtpDispatcher) NotifyCancelled(_ context.Context, recipientEmail string, record commands.BookingNotice) error {
	subject := "Your venue booking was cancelled"
	body := fmt.Sprintf(
		"<p>An administrator cancelled your booking of %s.</p>%s",
		escape(record.VenueName),
		renderRecordTable([]commands.BookingNotice{record}),
	)
	return d.send(recipientEmail, subject, body)
}

func (d *smtpDispatcher) send(to, subject, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + d.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := d.cfg.Host + ":" + d.cfg.Port
	auth := smtp.PlainAuth("", d.cfg.User, d.cfg.Password, d.cfg.Host)
	if err := smtp.SendMail(addr, auth, d.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func renderRecordTable(records []commands.BookingNotice) string {
	var b strings.Builder
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr>" +
		"<th>Venue</th><th>Requested by</th><th>Purpose</th><th>From</th><th>To</th><th>Document</th></tr>")
	for _, r := range records {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			escape(r.VenueName), escape(r.RequesterUsername), escape(r.Purpose),
			r.StartTime.Format(time.RFC1123), r.EndTime.Format(time.RFC1123),
			escape(r.DocumentRef),
		)
	}
	b.WriteString("</table>")
	return b.String()
}

func escape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return replacer.Replace(s)
}

// logDispatcher records every would-be notification and always succeeds.
type logDispatcher struct{}

func (d *logDispatcher) NotifyApprovalRequest(_ context.Context, records []commands.BookingNotice, level int) error {
	slog.Info("notification: approval request", "level", level, "records", len(records))
	return nil
}

func (d *logDispatcher) NotifyApproved(_ context.Context, recipientEmail string, record commands.BookingNotice) error {
	slog.Info("notification: booking confirmed", "recipient", recipientEmail, "booking_id", record.BookingID)
	return nil
}

func (d *logDispatcher) NotifyRejected(_ context.Context, recipientEmail string, record commands.BookingNotice, reason string, level int) error {
	slog.Info("notification: booking rejected", "recipient", recipientEmail, "booking_id", record.BookingID, "level", level, "reason", reason)
	return nil
}

func (d *logDispatcher) NotifyCancelled(_ context.Context, recipientEmail string, record commands.BookingNotice) error {
	slog.Info("notification: booking cancelled", "recipient", recipientEmail, "booking_id", record.BookingID)
	return nil
}
