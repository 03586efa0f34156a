package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messaging_publish_attempts_total",
		Help: "Publish attempts to the message fabric, including retries.",
	}, []string{"kind"})

	publishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messaging_publish_failures_total",
		Help: "Failed publish attempts.",
	}, []string{"kind"})

	deadLettersRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messaging_dead_letters_total",
		Help: "Messages routed to the dead-letter store after exhausting retries.",
	}, []string{"kind"})
)
