package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestStoreMetricsExportsCheckoutAndInventory(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg, "storewise")
	m.ObserveCheckout(OutcomePosted, 20*time.Millisecond)
	m.ObserveCheckout(OutcomeRejected, 5*time.Millisecond)
	m.AddSale(decimal.RequireFromString("11.17"), 3)
	m.IncStockEvent("clamped")
	m.SetInventory(decimal.RequireFromString("452.80"), 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storewise_checkouts_total", "outcome", OutcomePosted); err != nil {
		t.Fatalf("fetch posted: %v", err)
	} else if got != 1 {
		t.Fatalf("expected posted=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "storewise_checkouts_total", "outcome", OutcomeRejected); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "storewise_stock_adjustments_total", "kind", "clamped"); err != nil {
		t.Fatalf("fetch stock events: %v", err)
	} else if got != 1 {
		t.Fatalf("expected clamped=1, got %f", got)
	}

	if got := fetchUnlabelled(mfs, "storewise_sales_amount_total"); got != 11.17 {
		t.Fatalf("expected sales amount 11.17, got %f", got)
	}
	if got := fetchUnlabelled(mfs, "storewise_units_sold_total"); got != 3 {
		t.Fatalf("expected units 3, got %f", got)
	}
	if got := fetchUnlabelled(mfs, "storewise_low_stock_products"); got != 3 {
		t.Fatalf("expected low stock 3, got %f", got)
	}
	if got := fetchUnlabelled(mfs, "storewise_inventory_value"); got != 452.8 {
		t.Fatalf("expected inventory 452.8, got %f", got)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "storewise")
	m.Observe("GET", "/api/v1/cart", 200, 3*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storewise_http_requests_total", "route", "/api/v1/cart"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 request, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "storewise_http_request_duration_seconds", "route", "/api/v1/cart"); err != nil {
		t.Fatalf("fetch latency: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected latency sum > 0, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var s *StoreMetrics
	s.ObserveCheckout(OutcomePosted, time.Second)
	s.AddSale(decimal.NewFromInt(1), 1)
	s.IncStockEvent("oversold")
	s.SetInventory(decimal.NewFromInt(1), 1)

	unregistered := NewStoreMetrics(nil, "storewise")
	unregistered.ObserveCheckout(OutcomeFailed, time.Second)

	var h *HTTPMetrics
	h.Observe("GET", "/", 200, time.Second)
}

func fetchUnlabelled(mfs []*dto.MetricFamily, name string) float64 {
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		return -1
	}
	metric := mf.GetMetric()[0]
	if metric.GetGauge() != nil {
		return metric.GetGauge().GetValue()
	}
	return metric.GetCounter().GetValue()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
