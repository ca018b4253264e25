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

type Server struct {
	Engine         *ranking.Engine
	Store          records.RecordStore
	Session        *session.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
