package http

import (
	"net/http"

	"github.com/playpal-app/playpal-ranking/internal/config"
	"github.com/playpal-app/playpal-ranking/internal/metrics"
	"github.com/playpal-app/playpal-ranking/internal/notifier"
	"github.com/playpal-app/playpal-ranking/internal/ranking"
	"github.com/playpal-app/playpal-ranking/internal/records"
	"github.com/playpal-app/playpal-ranking/internal/session"
)

func NewServer(engine *ranking.Engine, store records.RecordStore, sessionStore *session.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Engine:         engine,
		Store:          store,
		Session:        sessionStore,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard/top", Chain(s.TopThreeHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard/others", Chain(s.OthersHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard/me", Chain(s.CurrentUserRankHandler(), paramsMiddleware))
	s.Router.Handle("/history", Chain(s.HistoryHandler(), paramsMiddleware))
	s.Router.Handle("/refresh", Chain(s.RefreshHandler(), paramsMiddleware))
	s.Router.Handle("/clear-error", Chain(s.ClearErrorHandler(), paramsMiddleware))
	s.Router.Handle("/session", Chain(s.SessionHandler(), paramsMiddleware))
	s.Router.Handle("/notify-leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/rank", Chain(s.RankCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
