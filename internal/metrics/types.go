package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RefreshRuns        prometheus.Counter
	RefreshFailures    prometheus.Counter
	RefreshDuration    prometheus.Histogram
	RealtimeEvents     prometheus.Counter
	LeaderboardSize    prometheus.Gauge
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
