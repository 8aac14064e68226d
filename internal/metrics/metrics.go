package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventlog_events_created_total",
		Help: "Total number of events created, labelled by event type.",
	}, []string{"event_type"})

	CreateFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventlog_create_failures_total",
		Help: "Total number of failed create operations, labelled by failing store.",
	}, []string{"store"})

	QueryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventlog_query_failures_total",
		Help: "Total number of failed user event queries.",
	})

	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventlog_query_duration_ms",
		Help:    "End-to-end user event query latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	IngestMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventlog_ingest_messages_total",
		Help: "Total number of AMQP ingest messages handled, labelled by outcome.",
	}, []string{"outcome"})
)
