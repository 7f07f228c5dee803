package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type POSMetrics struct {
	SalesSettled     *prometheus.CounterVec
	SettlementAmount prometheus.Histogram
	SyncItems        *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

func NewPOSMetrics(service string) *POSMetrics {
	salesSettled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: service,
		Name:      "sales_settled_total",
		Help:      "Total settled sales.",
	}, []string{"payment_type", "queued"})
	settlementAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: service,
		Name:      "settlement_amount",
		Help:      "Settled sale totals.",
		Buckets:   []float64{5000, 10000, 25000, 50000, 100000, 250000, 500000, 1000000},
	})
	syncItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: service,
		Name:      "sync_items_total",
		Help:      "Queue items processed by sync passes.",
	}, []string{"outcome"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: service,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	prometheus.MustRegister(salesSettled, settlementAmount, syncItems, httpDuration)
	return &POSMetrics{
		SalesSettled:     salesSettled,
		SettlementAmount: settlementAmount,
		SyncItems:        syncItems,
		HTTPDuration:     httpDuration,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware mencatat durasi request per rute terpasang (bukan URL mentah,
// supaya kardinalitas label tetap terkendali).
func Middleware(m *POSMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := chi.RouteContext(r.Context()).RoutePattern()
			if path == "" {
				path = "unmatched"
			}
			m.HTTPDuration.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}
