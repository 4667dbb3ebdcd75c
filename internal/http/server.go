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

func NewServer(
	teams team.TeamStore,
	players player.PlayerStore,
	matches match.MatchStore,
	aggregator stats.Aggregator,
	tokens sharetoken.TokenStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	notif notifier.Notifier,
	cfg config.Config,
	clock clockwork.Clock,
) *Server {
	server := &Server{
		Teams:          teams,
		Players:        players,
		Matches:        matches,
		Stats:          aggregator,
		Tokens:         tokens,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Notifier:       notif,
		Cfg:            cfg,
		Clock:          clock,
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

	s.Router.Handle("/teams/create", Chain(s.CreateTeamHandler(), paramsMiddleware))
	s.Router.Handle("/teams/login", Chain(s.LoginHandler(), paramsMiddleware))
	s.Router.Handle("/teams/delete", Chain(s.DeleteTeamHandler(), paramsMiddleware))

	s.Router.Handle("/players/create", Chain(s.CreatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/update", Chain(s.UpdatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players/deactivate", Chain(s.DeactivatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players/reactivate", Chain(s.ReactivatePlayerHandler(), paramsMiddleware))

	s.Router.Handle("/matches/record", Chain(s.RecordMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/can-delete", Chain(s.CanDeleteMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches/delete", Chain(s.DeleteMatchHandler(), paramsMiddleware))

	s.Router.Handle("/stats/summary", Chain(s.TeamSummaryHandler(), paramsMiddleware))
	s.Router.Handle("/stats/player", Chain(s.PlayerProfileHandler(), paramsMiddleware))
	s.Router.Handle("/stats/rankings", Chain(s.TeamRankingsHandler(), paramsMiddleware))
	s.Router.Handle("/stats/pairs", Chain(s.PairRankingsHandler(), paramsMiddleware))
	s.Router.Handle("/stats/badges", Chain(s.TeamBadgesHandler(), paramsMiddleware))

	s.Router.Handle("/share/issue", Chain(s.IssueShareTokenHandler(), paramsMiddleware))
	s.Router.Handle("/share/validate", Chain(s.ValidateShareTokenHandler(), paramsMiddleware))
	s.Router.Handle("/share/cleanup", Chain(s.CleanupShareTokensHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
