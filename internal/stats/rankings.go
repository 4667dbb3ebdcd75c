package stats

import (
	"fmt"
	"sort"

	"github.com/kickerlog/kickerlog/internal/match"
)

// TeamRankings orders active players by current rating. Equal ratings are
// broken by ascending player id so the ordering is total.
func (s *store) TeamRankings(teamID int64) ([]PlayerRanking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players, err := s.loadActivePlayers(teamID)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return []PlayerRanking{}, nil
	}

	type tally struct {
		matches int
		wins    int
	}
	tallies := make(map[int64]tally, len(players))
	rows, err := s.db.Query(`
		SELECT mp.player_id, COUNT(*), SUM(CASE WHEN mp.rating_delta > 0 THEN 1 ELSE 0 END)
		FROM match_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE p.team_id = ?
		GROUP BY mp.player_id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query win tallies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var playerID int64
		var t tally
		if err := rows.Scan(&playerID, &t.matches, &t.wins); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		tallies[playerID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].rating != players[j].rating {
			return players[i].rating > players[j].rating
		}
		return players[i].id < players[j].id
	})

	rankings := make([]PlayerRanking, 0, len(players))
	for i, p := range players {
		t := tallies[p.id]
		r := PlayerRanking{
			Rank:       i + 1,
			PlayerID:   p.id,
			PlayerName: p.name,
			AvatarID:   p.avatarID,
			Rating:     p.rating,
			Matches:    t.matches,
			Wins:       t.wins,
		}
		if t.matches > 0 {
			r.WinRate = float64(t.wins) / float64(t.matches) * 100
		}
		rankings = append(rankings, r)
	}
	return rankings, nil
}

// PairRankings aggregates every side pairing across the team's history.
// Pairs with fewer than minSharedMatches shared games are dropped; the rest
// sort by win rate, then match count, then player ids.
func (s *store) PairRankings(teamID int64) ([]PairStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, err := s.loadTeamHistory(teamID)
	if err != nil {
		return nil, err
	}

	type pairKey struct{ low, high int64 }
	pairs := map[pairKey]*PairStats{}

	for i := range history {
		m := &history[i]
		for _, side := range []match.Side{match.SideOne, match.SideTwo} {
			var sideParts []*historyPart
			for j := range m.parts {
				if m.parts[j].side == side {
					sideParts = append(sideParts, &m.parts[j])
				}
			}
			if len(sideParts) != 2 {
				continue
			}
			if sideParts[0].playerID > sideParts[1].playerID {
				sideParts[0], sideParts[1] = sideParts[1], sideParts[0]
			}

			key := pairKey{sideParts[0].playerID, sideParts[1].playerID}
			pair, ok := pairs[key]
			if !ok {
				pair = &PairStats{
					Player1ID:   sideParts[0].playerID,
					Player1Name: sideParts[0].name,
					Player2ID:   sideParts[1].playerID,
					Player2Name: sideParts[1].name,
				}
				pairs[key] = pair
			}

			pair.Matches++
			pair.TotalScore += m.sideScore(side)
			if sideParts[0].delta > 0 {
				pair.Wins++
			} else {
				pair.Losses++
			}
			pair.WinRate = float64(pair.Wins) / float64(pair.Matches) * 100
			pair.AverageScore = float64(pair.TotalScore) / float64(pair.Matches)
		}
	}

	var result []PairStats
	for _, pair := range pairs {
		if pair.Matches >= minSharedMatches {
			result = append(result, *pair)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].WinRate != result[j].WinRate {
			return result[i].WinRate > result[j].WinRate
		}
		if result[i].Matches != result[j].Matches {
			return result[i].Matches > result[j].Matches
		}
		if result[i].Player1ID != result[j].Player1ID {
			return result[i].Player1ID < result[j].Player1ID
		}
		return result[i].Player2ID < result[j].Player2ID
	})
	return result, nil
}
