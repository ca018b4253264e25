package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRefreshRuns()
	IncRefreshFailures()
	ObserveRefreshDuration(duration float64)
	IncRealtimeEvents()
	SetLeaderboardSize(size float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
