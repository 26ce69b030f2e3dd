// Package email delivers transactional mail for quotation lifecycle
// moments. Delivery is via the agency platform's SMTP relay.
package email

import (
	"context"

	"travelquote_backend/platform/config"
)

// QuotationWonData carries the fields rendered into the won notification.
type QuotationWonData struct {
	RecipientName  string
	Destination    string
	TotalFormatted string
}

// FollowUpData carries the fields rendered into the follow-up reminder.
type FollowUpData struct {
	RecipientName string
	Destination   string
	ClientName    string
	SentAgoDays   int
}

// Sender delivers rendered notification emails.
type Sender interface {
	SendQuotationWon(ctx context.Context, toEmail string, data QuotationWonData) error
	SendFollowUpReminder(ctx context.Context, toEmail string, data FollowUpData) error
}

// NoopSender drops every email. Used when delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendQuotationWon(context.Context, string, QuotationWonData) error {
	return nil
}

func (NoopSender) SendFollowUpReminder(context.Context, string, FollowUpData) error {
	return nil
}

// NewSender picks the sender implementation for the current config.
// Delivery is off unless SMTP is configured.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = NoopSender{}
)
