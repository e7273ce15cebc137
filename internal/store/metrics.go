package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_store_sessions_created_total",
		Help: "Sessions created",
	})

	sessionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_store_sessions_closed_total",
		Help: "Sessions closed, explicit and auto-close alike",
	})

	messagesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_store_messages_accepted_total",
		Help: "Messages accepted into a session",
	})

	messagesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_store_messages_rejected_total",
		Help: "Message submissions rejected by a store precondition",
	})

	sweepRemovals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_store_sweep_removals_total",
		Help: "Sessions removed by the expiry sweep",
	})

	archiveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bottlemessage_store_archive_failures_total",
		Help: "Archive writes that failed and were degraded to warnings",
	})
)
