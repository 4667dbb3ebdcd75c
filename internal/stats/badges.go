package stats

import "math"

// TeamBadges computes the team's superlatives over its active players. Every
// single-winner badge resolves ties to the lowest player id: players iterate
// in ascending id order and a later candidate must strictly beat the holder.
func (s *store) TeamBadges(teamID int64) (*TeamBadges, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	badges := &TeamBadges{
		Newcomers: []BadgeHolder{},
		Carried:   []BadgeHolder{},
	}

	players, err := s.loadActivePlayers(teamID)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return badges, nil
	}

	history, err := s.loadTeamHistory(teamID)
	if err != nil {
		return nil, err
	}

	folds := make(map[int64]foldResult, len(players))
	for _, p := range players {
		folds[p.id] = foldPlayer(p.id, history)
	}

	for _, p := range players {
		holder := func(value int) *BadgeHolder {
			return &BadgeHolder{PlayerID: p.id, PlayerName: p.name, Value: value}
		}
		f := folds[p.id]

		if badges.TopRated == nil || p.rating > badges.TopRated.Value {
			badges.TopRated = holder(p.rating)
		}
		if badges.LastPlace == nil || p.rating < badges.LastPlace.Value {
			badges.LastPlace = holder(p.rating)
		}
		if f.currentStreak >= minHotStreak && (badges.HotStreak == nil || f.currentStreak > badges.HotStreak.Value) {
			badges.HotStreak = holder(f.currentStreak)
		}
		if f.longestWinStreak > 0 && (badges.StreakKing == nil || f.longestWinStreak > badges.StreakKing.Value) {
			badges.StreakKing = holder(f.longestWinStreak)
		}
		if f.shutoutLosses > 0 && (badges.TableDiver == nil || f.shutoutLosses > badges.TableDiver.Value) {
			badges.TableDiver = holder(f.shutoutLosses)
		}
		if f.shutoutWins > 0 && (badges.TableSender == nil || f.shutoutWins > badges.TableSender.Value) {
			badges.TableSender = holder(f.shutoutWins)
		}
		if f.total() >= minGamesForPositionBadge {
			winPct := int(float64(f.wins) / float64(f.total()) * 100)
			if badges.BestWinRate == nil || winPct > badges.BestWinRate.Value {
				badges.BestWinRate = holder(winPct)
			}
		}
		// Position badge values are stored as tenths of a goal per game to
		// keep precision in an int.
		if f.gkGames >= minGamesForPositionBadge {
			conceded := int(float64(f.goalsAgainstAsGk) / float64(f.gkGames) * 10)
			if badges.BestGoalkeeper == nil || conceded < badges.BestGoalkeeper.Value {
				badges.BestGoalkeeper = holder(conceded)
			}
		}
		if f.atkGames >= minGamesForPositionBadge {
			scored := int(float64(f.goalsForAsAtk) / float64(f.atkGames) * 10)
			if badges.BestAttacker == nil || scored > badges.BestAttacker.Value {
				badges.BestAttacker = holder(scored)
			}
		}

		if busiest := s.busiestDay(p.id, history); busiest > 0 {
			if badges.TomkoMemorial == nil || busiest > badges.TomkoMemorial.Value {
				badges.TomkoMemorial = holder(busiest)
			}
		}

		if p.createdAt.After(s.clock.Now().Add(-newcomerWindow)) {
			badges.Newcomers = append(badges.Newcomers, *holder(0))
		}

		if carriedPct, ok := carriedShare(p.id, f, history); ok {
			badges.Carried = append(badges.Carried, *holder(carriedPct))
		}
	}

	return badges, nil
}

// busiestDay returns the most games the player packed into one calendar day.
func (s *store) busiestDay(playerID int64, history []historyMatch) int {
	perDay := map[string]int{}
	best := 0
	for i := range history {
		m := &history[i]
		if m.part(playerID) == nil {
			continue
		}
		day := m.playedAt.Format("2006-01-02")
		perDay[day]++
		if perDay[day] > best {
			best = perDay[day]
		}
	}
	return best
}

// carriedShare reports whether the player's wins came disproportionately
// alongside a higher-rated partner: at least minGamesForCarried games and
// carriedWinShare of all wins with a partner whose pre-match rating exceeded
// the player's own. Returns the share as a whole percentage.
func carriedShare(playerID int64, f foldResult, history []historyMatch) (int, bool) {
	if f.total() < minGamesForCarried || f.wins == 0 {
		return 0, false
	}

	carriedWins := 0
	for i := range history {
		m := &history[i]
		mine := m.part(playerID)
		if mine == nil || mine.delta <= 0 {
			continue
		}
		for j := range m.parts {
			other := &m.parts[j]
			if other.playerID != playerID && other.side == mine.side && other.before > mine.before {
				carriedWins++
				break
			}
		}
	}

	share := float64(carriedWins) / float64(f.wins)
	if share < carriedWinShare {
		return 0, false
	}
	return int(math.Round(share * 100)), true
}
