package events_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/events"
)

func newTestBus() *events.Bus {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return events.NewBus(logger)
}

func testEvent(eventType string) events.Event {
	return events.New(eventType, nil, events.Source{System: "test", Module: "bus_test"})
}

func TestSubscribeReceivesMatchingType(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		calls++
	})

	bus.Publish(testEvent(events.EventPaymentSubmitted))
	bus.Publish(testEvent(events.EventPaymentSubmitted))

	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestSubscribeIgnoresOtherTypes(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		calls++
	})

	bus.Publish(testEvent(events.EventInsightGenerated))
	bus.Publish(testEvent(events.EventStatementReady))

	if calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
}

func TestSubscribeAllReceivesEveryType(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.SubscribeAll(func(ev events.Event) {
		calls++
	})

	bus.Publish(testEvent(events.EventPaymentSubmitted))
	bus.Publish(testEvent(events.EventInsightGenerated))
	bus.Publish(testEvent(events.EventCardViewed))

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDeliveryOrderTypedThenWildcardInRegistrationOrder(t *testing.T) {
	bus := newTestBus()

	var order []string
	bus.SubscribeAll(func(ev events.Event) {
		order = append(order, "wildcard-1")
	})
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		order = append(order, "typed-1")
	})
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		order = append(order, "typed-2")
	})
	bus.SubscribeAll(func(ev events.Event) {
		order = append(order, "wildcard-2")
	})

	bus.Publish(testEvent(events.EventPaymentSubmitted))

	want := []string{"typed-1", "typed-2", "wildcard-1", "wildcard-2"}
	if len(order) != len(want) {
		t.Fatalf("expected %d invocations, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := newTestBus()

	calls := 0
	cancel := bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		calls++
	})

	bus.Publish(testEvent(events.EventPaymentSubmitted))
	cancel()
	bus.Publish(testEvent(events.EventPaymentSubmitted))

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	bus := newTestBus()

	first := 0
	second := 0
	cancel := bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		first++
	})
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		second++
	})

	cancel()
	cancel()

	bus.Publish(testEvent(events.EventPaymentSubmitted))

	if first != 0 {
		t.Errorf("cancelled handler called %d times", first)
	}
	if second != 1 {
		t.Errorf("remaining handler expected 1 call, got %d", second)
	}
}

func TestCancelWildcard(t *testing.T) {
	bus := newTestBus()

	calls := 0
	cancel := bus.SubscribeAll(func(ev events.Event) {
		calls++
	})

	cancel()
	bus.Publish(testEvent(events.EventCardViewed))

	if calls != 0 {
		t.Errorf("expected no calls after cancel, got %d", calls)
	}
}

func TestPanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := newTestBus()

	faults := 0
	bus.OnFault(func(eventType string) {
		faults++
	})

	before := 0
	after := 0
	wildcard := 0
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		before++
	})
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		panic("handler bug")
	})
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		after++
	})
	bus.SubscribeAll(func(ev events.Event) {
		wildcard++
	})

	bus.Publish(testEvent(events.EventPaymentSubmitted))

	if before != 1 || after != 1 || wildcard != 1 {
		t.Errorf("expected all healthy handlers invoked once, got before=%d after=%d wildcard=%d",
			before, after, wildcard)
	}
	if faults != 1 {
		t.Errorf("expected 1 recorded fault, got %d", faults)
	}

	// The bus must keep working after a fault.
	bus.Publish(testEvent(events.EventPaymentSubmitted))
	if after != 2 {
		t.Errorf("expected handler to keep receiving events, got %d calls", after)
	}
}

func TestNoHistoryForLateSubscribers(t *testing.T) {
	bus := newTestBus()

	bus.Publish(testEvent(events.EventPaymentSubmitted))

	calls := 0
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		calls++
	})

	if calls != 0 {
		t.Errorf("late subscriber must not see past events, got %d calls", calls)
	}
}

func TestNewFillsIDAndTimestamp(t *testing.T) {
	ev := events.New(events.EventCardViewed, events.CardViewed{Category: "credit_card"}, events.Source{
		System: "test",
		Module: "bus_test",
	})

	if ev.ID == "" {
		t.Error("expected generated event ID")
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if ev.Type != events.EventCardViewed {
		t.Errorf("unexpected type %s", ev.Type)
	}
}

func TestPayloadPassedUnchanged(t *testing.T) {
	bus := newTestBus()

	var got events.Event
	bus.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		got = ev
	})

	sent := events.New(events.EventPaymentSubmitted, events.PaymentSubmitted{
		AccountID: "acct-1",
		Amount:    125.50,
		Currency:  "USD",
		Method:    "ach",
	}, events.Source{System: "test", Module: "bus_test"})
	bus.Publish(sent)

	payload, ok := got.Payload.(events.PaymentSubmitted)
	if !ok {
		t.Fatalf("unexpected payload type %T", got.Payload)
	}
	if payload.AccountID != "acct-1" || payload.Amount != 125.50 {
		t.Errorf("payload mutated in delivery: %+v", payload)
	}
	if got.ID != sent.ID {
		t.Errorf("event ID changed in delivery: %s != %s", got.ID, sent.ID)
	}
}
