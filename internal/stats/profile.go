package stats

import (
	"database/sql"
	"fmt"
	"sort"
)

// PlayerProfile assembles the full statistics view for one player.
func (s *store) PlayerProfile(playerID int64) (*PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var name string
	var currentRating int
	err := s.db.QueryRow("SELECT name, rating FROM players WHERE id = ?", playerID).Scan(&name, &currentRating)
	if err == sql.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	history, err := s.loadPlayerHistory(playerID)
	if err != nil {
		return nil, err
	}

	profile := &PlayerProfile{
		PlayerID:      playerID,
		PlayerName:    name,
		CurrentRating: currentRating,
		HighestRating: currentRating,
		LowestRating:  currentRating,
		TotalMatches:  len(history),
	}
	if len(history) == 0 {
		return profile, nil
	}

	// Lifetime min/max over every recorded snapshot plus the current rating.
	for i := range history {
		p := history[i].part(playerID)
		for _, r := range []int{p.before, p.after} {
			if r > profile.HighestRating {
				profile.HighestRating = r
			}
			if r < profile.LowestRating {
				profile.LowestRating = r
			}
		}
		profile.RatingHistory = append(profile.RatingHistory, RatingPoint{
			Date:   history[i].playedAt,
			Rating: p.after,
		})
	}

	f := foldPlayer(playerID, history)
	profile.Wins = f.wins
	profile.Losses = f.losses
	profile.CurrentStreak = f.currentStreak
	profile.LongestWinStreak = f.longestWinStreak
	profile.ShutoutLosses = f.shutoutLosses
	profile.ShutoutWins = f.shutoutWins
	profile.GamesAsGoalkeeper = f.gkGames
	profile.GamesAsAttacker = f.atkGames
	profile.GoalsForAsGoalkeeper = f.goalsForAsGk
	profile.GoalsAgainstAsGoalkeeper = f.goalsAgainstAsGk
	profile.GoalsForAsAttacker = f.goalsForAsAtk
	profile.GoalsAgainstAsAttacker = f.goalsAgainstAsAtk
	profile.WinRate = float64(f.wins) / float64(profile.TotalMatches) * 100

	profile.PreferredPosition = preferredPosition(f.gkGames, f.atkGames)

	best, worst := partnerExtremes(playerID, history)
	profile.BestPartner = best
	profile.WorstPartner = worst

	easiest, hardest := opponentExtremes(playerID, history)
	profile.EasiestOpponent = easiest
	profile.HardestOpponent = hardest

	return profile, nil
}

func preferredPosition(gkGames, atkGames int) string {
	total := gkGames + atkGames
	if total == 0 {
		return ""
	}
	ratio := float64(gkGames) / float64(total)
	switch {
	case ratio > 0.6:
		return "Goalkeeper"
	case ratio < 0.4:
		return "Attacker"
	default:
		return "Flexible"
	}
}

type relationAgg struct {
	id    int64
	name  string
	games int
	wins  int
}

func (r relationAgg) winRate() float64 {
	return float64(r.wins) / float64(r.games) * 100
}

// partnerExtremes returns the best and worst recurring partner (same side,
// at least minSharedMatches shared games). The worst is omitted when only
// one partner qualifies, to avoid duplicating the best.
func partnerExtremes(playerID int64, history []historyMatch) (*PartnerStat, *PartnerStat) {
	agg := map[int64]*relationAgg{}
	for i := range history {
		m := &history[i]
		mine := m.part(playerID)
		for j := range m.parts {
			other := &m.parts[j]
			if other.playerID == playerID || other.side != mine.side {
				continue
			}
			a, ok := agg[other.playerID]
			if !ok {
				a = &relationAgg{id: other.playerID, name: other.name}
				agg[other.playerID] = a
			}
			a.games++
			if mine.delta > 0 {
				a.wins++
			}
		}
	}
	return pickExtremes(agg)
}

// opponentExtremes is the same grouping over the other side: the easiest
// opponent is the one beaten most often, the hardest the reverse.
func opponentExtremes(playerID int64, history []historyMatch) (*PartnerStat, *PartnerStat) {
	agg := map[int64]*relationAgg{}
	for i := range history {
		m := &history[i]
		mine := m.part(playerID)
		for j := range m.parts {
			other := &m.parts[j]
			if other.side == mine.side {
				continue
			}
			a, ok := agg[other.playerID]
			if !ok {
				a = &relationAgg{id: other.playerID, name: other.name}
				agg[other.playerID] = a
			}
			a.games++
			// The opponent losing means this player won.
			if other.delta < 0 {
				a.wins++
			}
		}
	}
	return pickExtremes(agg)
}

// pickExtremes filters to qualifying relations and returns (highest win
// rate, lowest win rate). Ties resolve to the lower player id.
func pickExtremes(agg map[int64]*relationAgg) (*PartnerStat, *PartnerStat) {
	var qualifying []*relationAgg
	for _, a := range agg {
		if a.games >= minSharedMatches {
			qualifying = append(qualifying, a)
		}
	}
	if len(qualifying) == 0 {
		return nil, nil
	}

	sort.Slice(qualifying, func(i, j int) bool {
		if qualifying[i].winRate() != qualifying[j].winRate() {
			return qualifying[i].winRate() > qualifying[j].winRate()
		}
		return qualifying[i].id < qualifying[j].id
	})

	best := toPartnerStat(qualifying[0])
	if len(qualifying) == 1 {
		return best, nil
	}
	return best, toPartnerStat(qualifying[len(qualifying)-1])
}

func toPartnerStat(a *relationAgg) *PartnerStat {
	return &PartnerStat{
		PlayerID: a.id,
		Name:     a.name,
		Games:    a.games,
		WinRate:  a.winRate(),
	}
}
