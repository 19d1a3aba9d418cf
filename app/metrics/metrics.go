package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "accounts"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "emails_sent_total",
			Help:      "Total number of transactional emails handed to the mail sender.",
		},
		[]string{"kind", "status"},
	)

	verificationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "attempts_total",
			Help:      "Total number of verification code submissions.",
		},
		[]string{"result"},
	)

	subscriptionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "subscriptions_created_total",
			Help:      "Total number of provider subscriptions created.",
		},
		[]string{"plan", "currency"},
	)

	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Total number of payment provider webhook events received.",
		},
		[]string{"type", "status"},
	)

	cleanupDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "cleanup_deleted_total",
			Help:      "Total number of expired rows removed by the cleanup job.",
		},
		[]string{"table"},
	)
)

func init() {
	Registry.MustRegister(
		emailsSent,
		verificationAttempts,
		subscriptionsCreated,
		webhookEvents,
		cleanupDeleted,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordEmail(kind string, err error) {
	emailsSent.WithLabelValues(kind, statusLabel(err)).Inc()
}

func RecordVerification(result string) {
	verificationAttempts.WithLabelValues(result).Inc()
}

func RecordSubscriptionCreated(plan, currency string) {
	subscriptionsCreated.WithLabelValues(plan, currency).Inc()
}

func RecordWebhookEvent(eventType string, err error) {
	webhookEvents.WithLabelValues(eventType, statusLabel(err)).Inc()
}

func RecordCleanup(table string, deleted int64) {
	if deleted <= 0 {
		return
	}
	cleanupDeleted.WithLabelValues(table).Add(float64(deleted))
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
