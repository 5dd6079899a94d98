package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minigym_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minigym_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minigym_registrations_total",
			Help: "Total number of membership registrations by decision",
		},
		[]string{"status"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minigym_check_ins_total",
			Help: "Total number of check-in attempts",
		},
		[]string{"status"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minigym_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"kind"},
	)

	SubscriptionsExpiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minigym_subscriptions_expired_total",
			Help: "Total number of subscriptions transitioned to expired",
		},
		[]string{"kind", "source"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minigym_notifications_total",
			Help: "Total number of notifications emitted",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "minigym_notification_queue_length",
			Help: "Current length of the notification dispatch queue",
		},
	)

	SchedulerPassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minigym_scheduler_pass_duration_seconds",
			Help:    "Duration of scheduler passes",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pass"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRegistration(status string) {
	RegistrationsTotal.WithLabelValues(status).Inc()
}

func RecordCheckIn(status string) {
	CheckInsTotal.WithLabelValues(status).Inc()
}

func RecordSubscriptionCreated(kind string) {
	SubscriptionsCreatedTotal.WithLabelValues(kind).Inc()
}

func RecordSubscriptionExpired(kind, source string) {
	SubscriptionsExpiredTotal.WithLabelValues(kind, source).Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsTotal.WithLabelValues(notifType, status).Inc()
}

func SetNotificationQueueLength(length float64) {
	NotificationQueueLength.Set(length)
}

func RecordSchedulerPass(pass string, seconds float64) {
	SchedulerPassDuration.WithLabelValues(pass).Observe(seconds)
}
