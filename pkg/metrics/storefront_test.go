package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestWishlistSyncMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewWishlistSyncMetrics(reg)
	metrics.IncSuccess()
	metrics.IncSuccess()
	metrics.IncFailure()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "wishlist_remote_write_success"); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 2 {
		t.Fatalf("expected success=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "wishlist_remote_write_failure"); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
}

func TestOrderFeedMetricsTracksSubscribers(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderFeedMetrics(reg)
	metrics.IncSubscribers()
	metrics.IncSubscribers()
	metrics.DecSubscribers()
	metrics.IncDelivered()
	metrics.IncDropped()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchGaugeValue(mfs, "order_feed_subscribers"); err != nil {
		t.Fatalf("fetch subscribers: %v", err)
	} else if got != 1 {
		t.Fatalf("expected subscribers=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "order_feed_events_delivered"); err != nil {
		t.Fatalf("fetch delivered: %v", err)
	} else if got != 1 {
		t.Fatalf("expected delivered=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "order_feed_events_dropped"); err != nil {
		t.Fatalf("fetch dropped: %v", err)
	} else if got != 1 {
		t.Fatalf("expected dropped=1, got %f", got)
	}
}

func TestNilRegistererProducesNoopMetrics(t *testing.T) {
	wishlist := NewWishlistSyncMetrics(nil)
	wishlist.IncSuccess()
	wishlist.IncFailure()

	feed := NewOrderFeedMetrics(nil)
	feed.IncSubscribers()
	feed.DecSubscribers()
	feed.IncDelivered()
	feed.IncDropped()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	metrics := mf.GetMetric()
	if len(metrics) == 0 {
		return 0, fmt.Errorf("metric %q has no samples", name)
	}
	return metrics[0].GetCounter().GetValue(), nil
}

func fetchGaugeValue(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	metrics := mf.GetMetric()
	if len(metrics) == 0 {
		return 0, fmt.Errorf("metric %q has no samples", name)
	}
	return metrics[0].GetGauge().GetValue(), nil
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
