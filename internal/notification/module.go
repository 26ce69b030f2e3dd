// Package notification subscribes to domain events and delivers email
// notifications. Domain modules publish events and stay unaware of mail
// providers and templates.
package notification

import (
	"context"
	"fmt"

	"travelquote_backend/internal/email"
	"travelquote_backend/internal/events"
	"travelquote_backend/internal/quotations/domain"
	"travelquote_backend/platform/logger"

	"github.com/google/uuid"
)

// UserReader resolves the user a notification should go to.
type UserReader interface {
	GetUserContact(ctx context.Context, userID uuid.UUID) (emailAddr, name string, err error)
}

// FollowUpScheduler queues a delayed follow-up reminder for a sent quotation.
type FollowUpScheduler interface {
	ScheduleFollowUp(ctx context.Context, quotationID, userID uuid.UUID) error
}

// Module handles quotation lifecycle notifications.
type Module struct {
	sender    email.Sender
	users     UserReader
	followUps FollowUpScheduler
	log       *logger.Logger
}

func NewModule(sender email.Sender, users UserReader, log *logger.Logger) *Module {
	return &Module{sender: sender, users: users, log: log}
}

func (m *Module) Name() string { return "notification" }

// SetFollowUpScheduler injects the reminder queue. Optional; without it
// sent quotations simply get no reminder.
func (m *Module) SetFollowUpScheduler(s FollowUpScheduler) {
	m.followUps = s
}

// RegisterHandlers subscribes to the quotation lifecycle events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.QuotationStatusChanged{}.EventName(), m)
	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuotationStatusChanged:
		return m.handleStatusChanged(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleStatusChanged(ctx context.Context, e events.QuotationStatusChanged) error {
	switch domain.Status(e.ToStatus) {
	case domain.StatusSent:
		return m.scheduleFollowUp(ctx, e)
	case domain.StatusWon:
		return m.sendWonEmail(ctx, e)
	}
	return nil
}

func (m *Module) scheduleFollowUp(ctx context.Context, e events.QuotationStatusChanged) error {
	if m.followUps == nil {
		return nil
	}
	if err := m.followUps.ScheduleFollowUp(ctx, e.QuotationID, e.ChangedBy); err != nil {
		return fmt.Errorf("schedule follow-up for quotation %s: %w", e.QuotationID, err)
	}
	m.log.Info("follow-up reminder scheduled", "quotation_id", e.QuotationID)
	return nil
}

func (m *Module) sendWonEmail(ctx context.Context, e events.QuotationStatusChanged) error {
	addr, name, err := m.users.GetUserContact(ctx, e.ChangedBy)
	if err != nil {
		return fmt.Errorf("resolve recipient %s: %w", e.ChangedBy, err)
	}

	err = m.sender.SendQuotationWon(ctx, addr, email.QuotationWonData{
		RecipientName:  name,
		Destination:    e.Destination,
		TotalFormatted: email.FormatCurrencyINR(e.TotalCents),
	})
	if err != nil {
		return fmt.Errorf("send won email for quotation %s: %w", e.QuotationID, err)
	}
	m.log.Info("quotation won email sent", "quotation_id", e.QuotationID)
	return nil
}
