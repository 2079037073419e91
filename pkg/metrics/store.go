package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Checkout outcomes.
const (
	OutcomePosted   = "posted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// StoreMetrics records checkout activity and inventory health for one store.
// A nil *StoreMetrics is valid and records nothing.
type StoreMetrics struct {
	checkouts      *prometheus.CounterVec
	duration       prometheus.Histogram
	salesAmount    prometheus.Counter
	unitsSold      prometheus.Counter
	stockEvents    *prometheus.CounterVec
	inventoryValue prometheus.Gauge
	lowStock       prometheus.Gauge
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer, namespace string) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Completed checkout attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Time spent posting a sale.",
		Buckets:   prometheus.DefBuckets,
	})
	salesAmount := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_amount_total",
		Help:      "Sum of posted sale totals in store currency.",
	})
	unitsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "units_sold_total",
		Help:      "Units sold across posted sales.",
	})
	stockEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_adjustments_total",
		Help:      "Checkout lines that were clamped, oversold, or skipped.",
	}, []string{"kind"})
	inventoryValue := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inventory_value",
		Help:      "Sum of price times stock across the catalog.",
	})
	lowStock := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "low_stock_products",
		Help:      "Products at or below their minimum stock.",
	})
	reg.MustRegister(checkouts, duration, salesAmount, unitsSold, stockEvents, inventoryValue, lowStock)
	return &StoreMetrics{
		checkouts:      checkouts,
		duration:       duration,
		salesAmount:    salesAmount,
		unitsSold:      unitsSold,
		stockEvents:    stockEvents,
		inventoryValue: inventoryValue,
		lowStock:       lowStock,
	}
}

// ObserveCheckout records one checkout attempt.
func (m *StoreMetrics) ObserveCheckout(outcome string, elapsed time.Duration) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// AddSale adds a posted sale to the running totals.
func (m *StoreMetrics) AddSale(total decimal.Decimal, units int) {
	if m == nil || m.salesAmount == nil {
		return
	}
	if total.IsPositive() {
		m.salesAmount.Add(total.InexactFloat64())
	}
	if units > 0 {
		m.unitsSold.Add(float64(units))
	}
}

// IncStockEvent counts a clamped, oversold, or skipped checkout line.
func (m *StoreMetrics) IncStockEvent(kind string) {
	if m == nil || m.stockEvents == nil {
		return
	}
	m.stockEvents.WithLabelValues(normalizeLabel(kind)).Inc()
}

// SetInventory mirrors the latest dashboard figures.
func (m *StoreMetrics) SetInventory(value decimal.Decimal, lowStock int) {
	if m == nil || m.inventoryValue == nil {
		return
	}
	m.inventoryValue.Set(value.InexactFloat64())
	m.lowStock.Set(float64(lowStock))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
