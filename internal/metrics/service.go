package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RefreshRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playpal_leaderboard_refresh_runs_total",
			Help: "The total number of leaderboard refresh passes started.",
		}),
		RefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playpal_leaderboard_refresh_failures_total",
			Help: "The total number of leaderboard refresh passes that failed.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "playpal_leaderboard_refresh_duration_seconds",
			Help:    "The duration of individual leaderboard refresh passes.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RealtimeEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playpal_realtime_events_total",
			Help: "The total number of change notifications received from the record store.",
		}),
		LeaderboardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playpal_leaderboard_size",
			Help: "The number of entries on the most recently published leaderboard.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playpal_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playpal_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playpal_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RefreshRuns,
		s.RefreshFailures,
		s.RefreshDuration,
		s.RealtimeEvents,
		s.LeaderboardSize,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRefreshRuns() {
	s.RefreshRuns.Inc()
}

func (s *Service) IncRefreshFailures() {
	s.RefreshFailures.Inc()
}

func (s *Service) ObserveRefreshDuration(duration float64) {
	s.RefreshDuration.Observe(duration)
}

func (s *Service) IncRealtimeEvents() {
	s.RealtimeEvents.Inc()
}

func (s *Service) SetLeaderboardSize(size float64) {
	s.LeaderboardSize.Set(size)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
