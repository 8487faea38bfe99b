package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	openSockets = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "coffeemates_open_sockets",
		Help: "Number of open websocket connections",
	}, []string{"socket"})

	framesPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coffeemates_snapshots_pushed_total",
		Help: "Total number of frames pushed to websocket clients",
	}, []string{"socket", "type"})
)
