package notification

import (
	"context"
	"testing"

	"travelquote_backend/internal/email"
	"travelquote_backend/internal/events"
	"travelquote_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	wonCalls      int
	followUpCalls int
	lastWonTo     string
	lastWonData   email.QuotationWonData
}

func (s *testSender) SendQuotationWon(_ context.Context, to string, data email.QuotationWonData) error {
	s.wonCalls++
	s.lastWonTo = to
	s.lastWonData = data
	return nil
}

func (s *testSender) SendFollowUpReminder(context.Context, string, email.FollowUpData) error {
	s.followUpCalls++
	return nil
}

type testUsers struct{}

func (testUsers) GetUserContact(context.Context, uuid.UUID) (string, string, error) {
	return "agent@example.com", "Priya", nil
}

type testScheduler struct {
	calls int
}

func (s *testScheduler) ScheduleFollowUp(context.Context, uuid.UUID, uuid.UUID) error {
	s.calls++
	return nil
}

func statusEvent(to string) events.QuotationStatusChanged {
	return events.QuotationStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		QuotationID: uuid.New(),
		AgencyID:    uuid.New(),
		ClientID:    uuid.New(),
		Destination: "Bali",
		FromStatus:  "SENT",
		ToStatus:    to,
		TotalCents:  1755000,
		ChangedBy:   uuid.New(),
	}
}

func TestWonStatusSendsEmail(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, testUsers{}, logger.New("test"))

	if err := m.Handle(context.Background(), statusEvent("WON")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if sender.wonCalls != 1 {
		t.Fatalf("expected one won email, got %d", sender.wonCalls)
	}
	if sender.lastWonTo != "agent@example.com" {
		t.Errorf("wrong recipient %q", sender.lastWonTo)
	}
	if sender.lastWonData.Destination != "Bali" {
		t.Errorf("wrong destination %q", sender.lastWonData.Destination)
	}
}

func TestSentStatusSchedulesFollowUp(t *testing.T) {
	sender := &testSender{}
	sched := &testScheduler{}
	m := NewModule(sender, testUsers{}, logger.New("test"))
	m.SetFollowUpScheduler(sched)

	if err := m.Handle(context.Background(), statusEvent("SENT")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if sched.calls != 1 {
		t.Fatalf("expected one scheduled follow-up, got %d", sched.calls)
	}
	if sender.wonCalls != 0 {
		t.Error("SENT must not trigger the won email")
	}
}

func TestLostStatusIsQuiet(t *testing.T) {
	sender := &testSender{}
	sched := &testScheduler{}
	m := NewModule(sender, testUsers{}, logger.New("test"))
	m.SetFollowUpScheduler(sched)

	if err := m.Handle(context.Background(), statusEvent("LOST")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sender.wonCalls != 0 || sender.followUpCalls != 0 || sched.calls != 0 {
		t.Error("LOST must not notify or schedule")
	}
}

func TestSentWithoutSchedulerIsNoop(t *testing.T) {
	m := NewModule(&testSender{}, testUsers{}, logger.New("test"))
	if err := m.Handle(context.Background(), statusEvent("SENT")); err != nil {
		t.Fatalf("handle without scheduler: %v", err)
	}
}
