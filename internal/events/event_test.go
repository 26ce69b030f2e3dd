package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// The package must expose the bus constructor so consumers that only import
// internal/events can wire subscriptions without reaching into platform/events.
func TestBusRoundTripThroughPackage(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var received *QuotationStatusChanged
	bus.Subscribe(QuotationStatusChanged{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		evt, ok := e.(QuotationStatusChanged)
		if !ok {
			t.Fatalf("handler got %T, want QuotationStatusChanged", e)
		}
		received = &evt
		return nil
	}))

	event := QuotationStatusChanged{
		BaseEvent:   NewBaseEvent(),
		QuotationID: uuid.New(),
		FromStatus:  "PENDING",
		ToStatus:    "SENT",
		TotalCents:  17550,
	}
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if received == nil {
		t.Fatal("handler was not invoked")
	}
	if received.QuotationID != event.QuotationID {
		t.Fatalf("quotation ID = %s, want %s", received.QuotationID, event.QuotationID)
	}
	if received.ToStatus != "SENT" {
		t.Fatalf("toStatus = %q, want SENT", received.ToStatus)
	}
	if received.OccurredAt().IsZero() {
		t.Fatal("event timestamp not set")
	}
}

var _ Bus = (*InMemoryBus)(nil)
