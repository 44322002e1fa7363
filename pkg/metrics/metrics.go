// Package metrics provides Prometheus metrics for the contest service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	enabled bool

	// Business metrics
	priceUpdatesApplied prometheus.Counter
	leaderboardRebuilds prometheus.Counter
	refreshSuccess      prometheus.Counter
	refreshFailure      prometheus.Counter

	// Operational health
	liveSessions  prometheus.Gauge
	feedSubscribers prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a metrics manager. When disabled, every recording method
// is a no-op but the Manager is still safe to use.
func New(enabled bool) *Manager {
	m := &Manager{enabled: enabled}
	if !enabled {
		return m
	}

	m.priceUpdatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pickarena",
		Name:      "price_updates_applied_total",
		Help:      "Price change events applied to live leaderboards.",
	})
	m.leaderboardRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pickarena",
		Name:      "leaderboard_rebuilds_total",
		Help:      "Full leaderboard valuation passes.",
	})
	m.refreshSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pickarena",
		Name:      "refresh_tickers_success_total",
		Help:      "Tickers refreshed successfully by the batch job.",
	})
	m.refreshFailure = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pickarena",
		Name:      "refresh_tickers_failure_total",
		Help:      "Tickers that failed to refresh in the batch job.",
	})
	m.liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pickarena",
		Name:      "live_sessions",
		Help:      "Currently open live leaderboard sessions.",
	})
	m.feedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pickarena",
		Name:      "feed_subscribers",
		Help:      "Active price feed subscriptions.",
	})
	m.httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pickarena",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
	m.httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pickarena",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	return m
}

// Handler returns the Prometheus scrape handler.
func (m *Manager) Handler() http.Handler {
	return promhttp.Handler()
}

// PriceUpdateApplied records one price event applied to a leaderboard.
func (m *Manager) PriceUpdateApplied() {
	if m.enabled {
		m.priceUpdatesApplied.Inc()
	}
}

// LeaderboardRebuilt records one full valuation pass.
func (m *Manager) LeaderboardRebuilt() {
	if m.enabled {
		m.leaderboardRebuilds.Inc()
	}
}

// RefreshResult records the per-ticker outcomes of one batch refresh.
func (m *Manager) RefreshResult(successful, failed int) {
	if m.enabled {
		m.refreshSuccess.Add(float64(successful))
		m.refreshFailure.Add(float64(failed))
	}
}

// SessionOpened increments the live session gauge.
func (m *Manager) SessionOpened() {
	if m.enabled {
		m.liveSessions.Inc()
	}
}

// SessionClosed decrements the live session gauge.
func (m *Manager) SessionClosed() {
	if m.enabled {
		m.liveSessions.Dec()
	}
}

// SubscriberAdded increments the feed subscriber gauge.
func (m *Manager) SubscriberAdded() {
	if m.enabled {
		m.feedSubscribers.Inc()
	}
}

// SubscriberRemoved decrements the feed subscriber gauge.
func (m *Manager) SubscriberRemoved() {
	if m.enabled {
		m.feedSubscribers.Dec()
	}
}

// ObserveHTTP records one HTTP request.
func (m *Manager) ObserveHTTP(method, path string, status int, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
