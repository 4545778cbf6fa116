package main

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Atomic counters behind /health.
var (
	activeDownloads    int64
	completedDownloads int64
	failedDownloads    int64

	serverStartTime = time.Now()
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytgrab_requests_total",
			Help: "API requests by route and outcome.",
		},
		[]string{"route", "outcome"},
	)

	toolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytgrab_ytdlp_invocations_total",
			Help: "yt-dlp invocations by kind (info, download) and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, toolInvocations)
}

func trackActive() func() {
	atomic.AddInt64(&activeDownloads, 1)
	return func() { atomic.AddInt64(&activeDownloads, -1) }
}
