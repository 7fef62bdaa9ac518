// Package observability registers the service's Prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	usersRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "users",
		Name:      "registered_total",
		Help:      "Number of successful user registrations.",
	})
	loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "users",
		Name:      "logins_total",
		Help:      "Number of login attempts by outcome.",
	}, []string{"outcome"})
	activitiesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "activities",
		Name:      "created_total",
		Help:      "Number of activities created.",
	})
	activitiesDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "activities",
		Name:      "deleted_total",
		Help:      "Number of activities deleted.",
	})
	activityPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "persistence",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(
		usersRegisteredTotal,
		loginsTotal,
		activitiesCreatedTotal,
		activitiesDeletedTotal,
		activityPersistGauge,
	)
}

// RecordUserRegistered counts a successful registration.
func RecordUserRegistered() { usersRegisteredTotal.Inc() }

// RecordLogin counts a login attempt.
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	loginsTotal.WithLabelValues(outcome).Inc()
}

// RecordActivityCreated counts a created activity.
func RecordActivityCreated() { activitiesCreatedTotal.Inc() }

// RecordActivityDeleted counts a deleted activity.
func RecordActivityDeleted() { activitiesDeletedTotal.Inc() }

// RecordActivityPersisted updates the persistence watermark gauge.
func RecordActivityPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	activityPersistGauge.Set(float64(ts.Unix()))
}
