package stats

import "github.com/kickerlog/kickerlog/internal/match"

// foldResult accumulates everything a single chronological walk over a
// player's participations yields. Every per-player statistic and badge is
// built on this fold.
type foldResult struct {
	wins   int
	losses int

	// currentStreak is signed: positive for consecutive wins, negative for
	// consecutive losses.
	currentStreak    int
	longestWinStreak int

	shutoutLosses int // lost with a 0 score
	shutoutWins   int // won 10-0

	gkGames          int
	atkGames         int
	goalsForAsGk     int
	goalsAgainstAsGk int
	goalsForAsAtk    int
	goalsAgainstAsAtk int
}

func (f foldResult) total() int {
	return f.wins + f.losses
}

// foldPlayer walks the player's matches in append order. A win is a positive
// rating delta, not a score comparison; the delta is signed toward the winner
// by construction.
func foldPlayer(playerID int64, history []historyMatch) foldResult {
	var f foldResult

	for i := range history {
		m := &history[i]
		p := m.part(playerID)
		if p == nil {
			continue
		}

		teamScore := m.sideScore(p.side)
		oppScore := m.sideScore(p.side.Other())
		won := p.delta > 0

		if won {
			f.wins++
			if f.currentStreak > 0 {
				f.currentStreak++
			} else {
				f.currentStreak = 1
			}
			if f.currentStreak > f.longestWinStreak {
				f.longestWinStreak = f.currentStreak
			}
			if teamScore == 10 && oppScore == 0 {
				f.shutoutWins++
			}
		} else {
			f.losses++
			if f.currentStreak < 0 {
				f.currentStreak--
			} else {
				f.currentStreak = -1
			}
			if teamScore == 0 {
				f.shutoutLosses++
			}
		}

		if p.position == match.PositionGoalkeeper {
			f.gkGames++
			f.goalsForAsGk += teamScore
			f.goalsAgainstAsGk += oppScore
		} else {
			f.atkGames++
			f.goalsForAsAtk += teamScore
			f.goalsAgainstAsAtk += oppScore
		}
	}
	return f
}
