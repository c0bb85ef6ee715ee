package orders

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/metrics"
)

// FeedEvent is one order notification pushed to admin subscribers.
type FeedEvent struct {
	EventType   enums.OutboxEventType `json:"event_type"`
	OrderID     uuid.UUID             `json:"order_id"`
	OccurredAt  time.Time             `json:"occurred_at"`
	Payload     json.RawMessage       `json:"payload"`
	DeliveredAt time.Time             `json:"delivered_at"`
}

const subscriberBuffer = 16

// Hub fans order events out to the active admin feed streams. Each
// subscription is scoped to its caller's context: when the stream's
// request ends, the subscription is torn down with it, so an abandoned
// stream never leaks a listener.
type Hub struct {
	mu      sync.Mutex
	subs    map[chan FeedEvent]struct{}
	metrics *metrics.OrderFeedMetrics
}

// NewHub constructs an empty feed hub.
func NewHub(feedMetrics *metrics.OrderFeedMetrics) *Hub {
	return &Hub{
		subs:    make(map[chan FeedEvent]struct{}),
		metrics: feedMetrics,
	}
}

// Subscribe registers a listener bound to ctx. The returned cancel
// function is idempotent; it also runs automatically when ctx ends.
func (h *Hub) Subscribe(ctx context.Context) (<-chan FeedEvent, func()) {
	ch := make(chan FeedEvent, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	h.metrics.IncSubscribers()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
				h.metrics.DecSubscribers()
			}
			h.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}

// Publish delivers the event to every subscriber. Slow consumers with a
// full buffer drop the event; the feed is a re-render trigger, not a
// durable stream, and admins re-read order rows on every render.
func (h *Hub) Publish(event FeedEvent) {
	event.DeliveredAt = time.Now().UTC()

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
			h.metrics.IncDelivered()
		default:
			h.metrics.IncDropped()
		}
	}
}

// SubscriberCount reports the number of active listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
