package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coffeemates",
		Subsystem: "chat",
		Name:      "messages_sent_total",
		Help:      "Number of chat messages stored, by kind.",
	}, []string{"kind"})

	postsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coffeemates",
		Subsystem: "feed",
		Name:      "posts_created_total",
		Help:      "Number of posts created.",
	})

	placesRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coffeemates",
		Subsystem: "places",
		Name:      "upstream_requests_total",
		Help:      "Requests sent to the places provider, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
)
