package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WishlistSyncMetrics tracks the best-effort remote writes behind wishlist
// toggles. Failures are expected to be rare but must stay observable since
// the local write is never rolled back.
type WishlistSyncMetrics struct {
	success prometheus.Counter
	failure prometheus.Counter
}

// NewWishlistSyncMetrics registers the wishlist sync metrics on the provided registerer.
func NewWishlistSyncMetrics(reg prometheus.Registerer) *WishlistSyncMetrics {
	if reg == nil {
		return &WishlistSyncMetrics{}
	}
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishlist_remote_write_success",
		Help: "Wishlist remote writes that reached the database.",
	})
	failure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishlist_remote_write_failure",
		Help: "Wishlist remote writes that failed and were dropped.",
	})
	reg.MustRegister(success, failure)
	return &WishlistSyncMetrics{success: success, failure: failure}
}

// IncSuccess increments the successful remote write counter.
func (w *WishlistSyncMetrics) IncSuccess() {
	if w == nil || w.success == nil {
		return
	}
	w.success.Inc()
}

// IncFailure increments the failed remote write counter.
func (w *WishlistSyncMetrics) IncFailure() {
	if w == nil || w.failure == nil {
		return
	}
	w.failure.Inc()
}

// OrderFeedMetrics tracks the admin order feed fanout.
type OrderFeedMetrics struct {
	subscribers prometheus.Gauge
	delivered   prometheus.Counter
	dropped     prometheus.Counter
}

// NewOrderFeedMetrics registers the feed metrics on the provided registerer.
func NewOrderFeedMetrics(reg prometheus.Registerer) *OrderFeedMetrics {
	if reg == nil {
		return &OrderFeedMetrics{}
	}
	subscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "order_feed_subscribers",
		Help: "Active order feed subscriptions.",
	})
	delivered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_feed_events_delivered",
		Help: "Order events delivered to subscribers.",
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_feed_events_dropped",
		Help: "Order events dropped because a subscriber was too slow.",
	})
	reg.MustRegister(subscribers, delivered, dropped)
	return &OrderFeedMetrics{
		subscribers: subscribers,
		delivered:   delivered,
		dropped:     dropped,
	}
}

// IncSubscribers records a new feed subscription.
func (o *OrderFeedMetrics) IncSubscribers() {
	if o == nil || o.subscribers == nil {
		return
	}
	o.subscribers.Inc()
}

// DecSubscribers records a departed feed subscription.
func (o *OrderFeedMetrics) DecSubscribers() {
	if o == nil || o.subscribers == nil {
		return
	}
	o.subscribers.Dec()
}

// IncDelivered counts one delivered feed event.
func (o *OrderFeedMetrics) IncDelivered() {
	if o == nil || o.delivered == nil {
		return
	}
	o.delivered.Inc()
}

// IncDropped counts one dropped feed event.
func (o *OrderFeedMetrics) IncDropped() {
	if o == nil || o.dropped == nil {
		return
	}
	o.dropped.Inc()
}
