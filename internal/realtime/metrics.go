package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coffeemates",
		Subsystem: "realtime",
		Name:      "subscriptions",
		Help:      "Number of open topic subscriptions on this instance.",
	})

	publishedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coffeemates",
		Subsystem: "realtime",
		Name:      "published_total",
		Help:      "Number of change notifications published.",
	})
)
