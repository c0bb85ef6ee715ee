package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/outbox"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe := hub.Subscribe(ctx)
	defer unsubscribe()

	orderID := uuid.New()
	hub.Publish(FeedEvent{EventType: enums.EventOrderPlaced, OrderID: orderID})

	select {
	case event := <-ch:
		if event.OrderID != orderID {
			t.Fatalf("expected order %s, got %s", orderID, event.OrderID)
		}
		if event.DeliveredAt.IsZero() {
			t.Fatal("expected delivery timestamp to be stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed event")
	}
}

func TestHubUnsubscribeOnContextEnd(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := hub.Subscribe(ctx)
	if hub.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount())
	}

	cancel()

	deadline := time.After(time.Second)
	for hub.SubscriberCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber not removed after context cancel")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// The channel is closed so a pending stream loop can exit.
	if _, open := <-ch; open {
		t.Fatal("expected channel closed after unsubscribe")
	}
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	ctx := context.Background()

	_, unsubscribe := hub.Subscribe(ctx)
	unsubscribe()
	unsubscribe()

	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", hub.SubscriberCount())
	}
}

func TestHubDropsWhenSubscriberBufferFull(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe := hub.Subscribe(ctx)
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(FeedEvent{EventType: enums.EventOrderPlaced, OrderID: uuid.New()})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received != subscriberBuffer {
				t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, received)
			}
			return
		}
	}
}

func TestDecodeFeedEvent(t *testing.T) {
	orderID := uuid.New()
	payload, err := json.Marshal(map[string]any{"order_id": orderID.String()})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	attributes := map[string]string{
		"event_type":   string(enums.EventOrderStatusChanged),
		"aggregate_id": orderID.String(),
	}
	event, err := DecodeFeedEvent(attributes, envelope)
	if err != nil {
		t.Fatalf("DecodeFeedEvent: %v", err)
	}
	if event.EventType != enums.EventOrderStatusChanged {
		t.Fatalf("expected status changed, got %s", event.EventType)
	}
	if event.OrderID != orderID {
		t.Fatalf("expected order %s, got %s", orderID, event.OrderID)
	}
	if len(event.Payload) == 0 {
		t.Fatal("expected payload carried through")
	}
}

func TestDecodeFeedEventRejectsBadInput(t *testing.T) {
	if _, err := DecodeFeedEvent(map[string]string{"event_type": "bogus"}, nil); err == nil {
		t.Fatal("expected unknown event type to fail")
	}

	attributes := map[string]string{
		"event_type":   string(enums.EventOrderPlaced),
		"aggregate_id": uuid.NewString(),
	}
	if _, err := DecodeFeedEvent(attributes, []byte("{not json")); err == nil {
		t.Fatal("expected malformed envelope to fail")
	}
	if _, err := DecodeFeedEvent(attributes, []byte(`{"version":1}`)); err == nil {
		t.Fatal("expected empty payload to fail")
	}
}
