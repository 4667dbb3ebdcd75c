package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kickerlog/kickerlog/internal/dates"
	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/kickerlog/kickerlog/internal/player"
	"github.com/kickerlog/kickerlog/internal/sharetoken"
	"github.com/kickerlog/kickerlog/internal/slugger"
	"github.com/kickerlog/kickerlog/internal/stats"
	"github.com/kickerlog/kickerlog/internal/team"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError maps domain errors onto HTTP status codes and writes a JSON
// error body.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *match.ValidationError
	var policyErr *match.PolicyError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &policyErr):
		status = http.StatusConflict
	case errors.Is(err, team.ErrCodeNameTaken),
		errors.Is(err, player.ErrRecentActivity):
		status = http.StatusConflict
	case errors.Is(err, team.ErrNotFound),
		errors.Is(err, player.ErrNotFound),
		errors.Is(err, match.ErrNotFound),
		errors.Is(err, stats.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sharetoken.ErrInvalidToken):
		status = http.StatusUnauthorized
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeBody decodes the request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryID parses a required int64 query parameter.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing required parameter %q", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter %q: %s", name, raw)
	}
	return id, nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			CodeName string `json:"code_name"`
			Password string `json:"password"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := s.Teams.Create(req.Name, req.CodeName, req.Password)
		if errors.Is(err, team.ErrCodeNameTaken) {
			// Offer the first free suffixed variant instead of a bare conflict.
			existing, listErr := s.Teams.ListCodeNames()
			if listErr != nil {
				respondError(w, listErr)
				return
			}
			respondJSON(w, http.StatusConflict, map[string]string{
				"error":      err.Error(),
				"suggestion": slugger.MakeUnique(slugger.Make(req.CodeName), existing),
			})
			return
		}
		if err != nil {
			log.Error("Failed to create team", "error", err, "codeName", req.CodeName)
			respondError(w, err)
			return
		}
		log.Info("Team created", "teamID", created.ID, "codeName", created.CodeName)
		respondJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CodeName string `json:"code_name"`
			Password string `json:"password"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ok, err := s.Teams.ValidatePassword(req.CodeName, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		if !ok {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid team name or password"})
			return
		}
		found, err := s.Teams.GetByCodeName(req.CodeName)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, found)
	}
}

func (s *Server) DeleteTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := queryID(r, "teamID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Teams.Delete(teamID); err != nil {
			log.Error("Failed to delete team", "error", err, "teamID", teamID)
			respondError(w, err)
			return
		}
		log.Info("Team deleted", "teamID", teamID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Team deleted!")
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TeamID   int64  `json:"team_id"`
			Name     string `json:"name"`
			AvatarID int    `json:"avatar_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := s.Players.Create(req.TeamID, req.Name, req.AvatarID)
		if err != nil {
			log.Error("Failed to create player", "error", err, "teamID", req.TeamID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := queryID(r, "teamID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		players, err := s.Players.ListByTeam(teamID, includeInactive)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID int64  `json:"player_id"`
			TeamID   int64  `json:"team_id"`
			Name     string `json:"name"`
			AvatarID int    `json:"avatar_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Players.Update(req.PlayerID, req.TeamID, req.Name, req.AvatarID); err != nil {
			respondError(w, err)
			return
		}
		updated, err := s.Players.GetByID(req.PlayerID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeactivatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID int64 `json:"player_id"`
			TeamID   int64 `json:"team_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Players.Deactivate(req.PlayerID, req.TeamID); err != nil {
			log.Error("Failed to deactivate player", "error", err, "playerID", req.PlayerID)
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Player deactivated!")
	}
}

func (s *Server) ReactivatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID int64 `json:"player_id"`
			TeamID   int64 `json:"team_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Players.Reactivate(req.PlayerID, req.TeamID); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Player reactivated!")
	}
}

func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TeamID int64 `json:"team_id"`
			match.RecordInput
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		recorded, err := s.Matches.Record(req.TeamID, req.RecordInput)
		if err != nil {
			var validationErr *match.ValidationError
			if errors.As(err, &validationErr) {
				s.Metrics.IncMatchesRejected()
				log.Warn("Match submission rejected", "reason", validationErr.Reason, "teamID", req.TeamID)
			} else {
				log.Error("Failed to record match", "error", err, "teamID", req.TeamID)
			}
			respondError(w, err)
			return
		}

		s.Metrics.IncMatchesRecorded()
		log.Info("Match recorded", "matchID", recorded.ID, "teamID", recorded.TeamID,
			"score", fmt.Sprintf("%d-%d", recorded.Team1Score, recorded.Team2Score),
			"requestID", requestIDFromContext(r))

		// Fire-and-forget: a slow or failing channel must not block the response.
		go func(m *match.Match) {
			if err := s.Notifier.MatchRecorded(m); err != nil {
				log.Error("Failed to announce recorded match", "error", err, "matchID", m.ID)
			}
		}(recorded)

		respondJSON(w, http.StatusCreated, recorded)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if playerID, err := queryID(r, "playerID"); err == nil {
			limit := match.DefaultPageSize
			if raw := r.URL.Query().Get("limit"); raw != "" {
				if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
					limit = parsed
				}
			}
			matches, err := s.Matches.ListByPlayer(playerID, limit)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, matches)
			return
		}

		teamID, err := queryID(r, "teamID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				page = parsed
			}
		}
		matches, err := s.Matches.ListByTeam(teamID, page, match.DefaultPageSize)
		if err != nil {
			respondError(w, err)
			return
		}
		total, err := s.Matches.CountByTeam(teamID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"matches":   matches,
			"page":      page,
			"page_size": match.DefaultPageSize,
			"total":     total,
		})
	}
}

func (s *Server) CanDeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := queryID(r, "matchID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ok, reason, err := s.Matches.CanDelete(matchID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"can_delete": ok,
			"reason":     reason,
		})
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID int64 `json:"match_id"`
			TeamID  int64 `json:"team_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Load before deleting so the notification can describe the match.
		deleted, err := s.Matches.GetByID(req.MatchID)
		if err != nil {
			respondError(w, err)
			return
		}

		if err := s.Matches.Delete(req.MatchID, req.TeamID); err != nil {
			log.Warn("Match deletion refused", "error", err, "matchID", req.MatchID)
			respondError(w, err)
			return
		}

		s.Metrics.IncMatchesDeleted()
		log.Info("Match deleted", "matchID", req.MatchID, "teamID", req.TeamID)

		go func(m *match.Match) {
			if err := s.Notifier.MatchDeleted(m); err != nil {
				log.Error("Failed to announce deleted match", "error", err, "matchID", m.ID)
			}
		}(deleted)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Match deleted!")
	}
}

func (s *Server) TeamSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := s.statsTeamID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		total, err := s.Matches.CountByTeam(teamID)
		if err != nil {
			respondError(w, err)
			return
		}

		resolver := dates.NewResolver(s.Clock)
		var thisWeek, today int
		if weekRange := resolver.Resolve(dates.PeriodWeek, nil, nil); weekRange != nil {
			if thisWeek, err = s.Matches.CountSince(teamID, weekRange.Start); err != nil {
				respondError(w, err)
				return
			}
		}
		if todayRange := resolver.Resolve(dates.PeriodToday, nil, nil); todayRange != nil {
			if today, err = s.Matches.CountSince(teamID, todayRange.Start); err != nil {
				respondError(w, err)
				return
			}
		}

		avgScore, err := s.Matches.AverageCombinedScore(teamID)
		if err != nil {
			respondError(w, err)
			return
		}
		activePlayers, err := s.Players.ActiveCount(teamID)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"total_matches":          total,
			"matches_today":          today,
			"matches_this_week":      thisWeek,
			"average_combined_score": avgScore,
			"active_players":         activePlayers,
		})
	}
}

func (s *Server) PlayerProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := queryID(r, "playerID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start := time.Now()
		profile, err := s.Stats.PlayerProfile(playerID)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.ObserveStatsDuration(time.Since(start).Seconds())
		respondJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) TeamRankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := s.statsTeamID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start := time.Now()
		rankings, err := s.Stats.TeamRankings(teamID)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.ObserveStatsDuration(time.Since(start).Seconds())
		respondJSON(w, http.StatusOK, rankings)
	}
}

func (s *Server) PairRankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := s.statsTeamID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start := time.Now()
		pairs, err := s.Stats.PairRankings(teamID)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.ObserveStatsDuration(time.Since(start).Seconds())
		respondJSON(w, http.StatusOK, pairs)
	}
}

func (s *Server) TeamBadgesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := s.statsTeamID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start := time.Now()
		badges, err := s.Stats.TeamBadges(teamID)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.ObserveStatsDuration(time.Since(start).Seconds())
		respondJSON(w, http.StatusOK, badges)
	}
}

// statsTeamID resolves the team for a stats request, either from an explicit
// teamID parameter or from a share token.
func (s *Server) statsTeamID(r *http.Request) (int64, error) {
	if token := r.URL.Query().Get("token"); token != "" {
		teamID, err := s.Tokens.Validate(token)
		if err != nil {
			return 0, err
		}
		return teamID, nil
	}
	return queryID(r, "teamID")
}

func (s *Server) IssueShareTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TeamID int64 `json:"team_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		issued, err := s.Tokens.Issue(req.TeamID)
		if err != nil {
			log.Error("Failed to issue share token", "error", err, "teamID", req.TeamID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, issued)
	}
}

func (s *Server) ValidateShareTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing required parameter \"token\"", http.StatusBadRequest)
			return
		}
		teamID, err := s.Tokens.Validate(token)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"team_id": teamID})
	}
}

func (s *Server) CleanupShareTokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := s.Tokens.CleanupExpired()
		if err != nil {
			log.Error("Failed to clean up share tokens", "error", err)
			respondError(w, err)
			return
		}
		log.Info("Expired share tokens removed", "count", deleted)
		respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
	}
}
