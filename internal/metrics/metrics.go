// Package metrics defines the Prometheus instruments recorded by the session.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dailysplit"

// Registration paths.
const (
	PathBootstrap  = "bootstrap"
	PathAccessCode = "access_code"
)

// Metrics groups every instrument. A zero Registerer leaves them unregistered,
// which keeps them usable but invisible.
type Metrics struct {
	Registrations       *prometheus.CounterVec
	Logins              prometheus.Counter
	GroupsCreated       prometheus.Counter
	MembersRemoved      prometheus.Counter
	ExpensesAdded       prometheus.Counter
	ExpensesDeleted     prometheus.Counter
	SettlementsComputed prometheus.Counter
	FeedbackSubmitted   prometheus.Counter
	OperationErrors     *prometheus.CounterVec
	ReportDuration      prometheus.Histogram
}

// New creates the instruments and registers them on reg when reg is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Users registered, by path (bootstrap admin or access code).",
		}, []string{"path"}),
		Logins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Successful logins.",
		}),
		GroupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_created_total",
			Help:      "Groups created.",
		}),
		MembersRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_removed_total",
			Help:      "Members removed from groups by an admin.",
		}),
		ExpensesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_added_total",
			Help:      "Daily expenses recorded.",
		}),
		ExpensesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_deleted_total",
			Help:      "Daily expenses deleted.",
		}),
		SettlementsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_computed_total",
			Help:      "Settlement matrix computations.",
		}),
		FeedbackSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_submitted_total",
			Help:      "Feedback entries submitted.",
		}),
		OperationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed operations, by operation and error kind.",
		}, []string{"operation", "kind"}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_generation_seconds",
			Help:      "Time spent rendering settlement reports.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Registrations,
			m.Logins,
			m.GroupsCreated,
			m.MembersRemoved,
			m.ExpensesAdded,
			m.ExpensesDeleted,
			m.SettlementsComputed,
			m.FeedbackSubmitted,
			m.OperationErrors,
			m.ReportDuration,
		)
	}
	return m
}

// WriteTextfile dumps everything gathered by g in the node-exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
