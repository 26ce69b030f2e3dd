package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers mail over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendQuotationWon(ctx context.Context, toEmail string, data QuotationWonData) error {
	content, err := renderEmailTemplate("quotation_won.html", quotationWonEmailData{
		baseEmailData: baseEmailData{
			Title:   "Quotation won",
			Heading: "Your quotation was accepted",
		},
		RecipientName:  data.RecipientName,
		Destination:    data.Destination,
		TotalFormatted: data.TotalFormatted,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectFor("quotation_won", data.Destination), content)
}

func (s *SMTPSender) SendFollowUpReminder(ctx context.Context, toEmail string, data FollowUpData) error {
	content, err := renderEmailTemplate("follow_up.html", followUpEmailData{
		baseEmailData: baseEmailData{
			Title:   "Follow-up reminder",
			Heading: "A quotation is waiting on the client",
		},
		RecipientName: data.RecipientName,
		Destination:   data.Destination,
		ClientName:    data.ClientName,
		SentAgoDays:   data.SentAgoDays,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectFor("follow_up_reminder", data.Destination), content)
}
