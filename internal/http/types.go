package http

import (
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/config"
	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/kickerlog/kickerlog/internal/metrics"
	"github.com/kickerlog/kickerlog/internal/notifier"
	"github.com/kickerlog/kickerlog/internal/player"
	"github.com/kickerlog/kickerlog/internal/sharetoken"
	"github.com/kickerlog/kickerlog/internal/stats"
	"github.com/kickerlog/kickerlog/internal/team"
)

type Server struct {
	Teams          team.TeamStore
	Players        player.PlayerStore
	Matches        match.MatchStore
	Stats          stats.Aggregator
	Tokens         sharetoken.TokenStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Notifier       notifier.Notifier
	Cfg            config.Config
	Clock          clockwork.Clock
	Router         *http.ServeMux
}
