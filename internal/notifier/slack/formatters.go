package slack

import (
	"fmt"
	"strings"

	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/slack-go/slack"
)

// FormatResultNotification creates the Slack message for a recorded match using Block Kit.
func (n *SlackNotifier) FormatResultNotification(m *match.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "⚽ Match recorded! ⚽", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Score line with the winning side first.
	winner, loser := match.SideOne, match.SideTwo
	if m.Team2Score > m.Team1Score {
		winner, loser = match.SideTwo, match.SideOne
	}
	scoreText := fmt.Sprintf("%s beat %s  %d - %d",
		sideLabel(m, winner), sideLabel(m, loser),
		m.SideScore(winner), m.SideScore(loser))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", scoreText, true, false), nil, nil))

	// Rating movements, one line per player.
	var lines []string
	for _, p := range m.Players {
		lines = append(lines, fmt.Sprintf("• %s: %d (%+d)", p.PlayerName, p.RatingAfter, p.RatingDelta))
	}
	if len(lines) > 0 {
		ratingsText := "Ratings:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", ratingsText, true, false), nil, nil))
	}

	// Context - For simpler, single-line info.
	var contextElements []slack.MixedElement
	if m.SideScore(loser) == 0 {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "🧹 Clean sheet! The losers go under the table.", true, false))
	}
	contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", m.PlayedAt.Format("Monday 02 Jan, 15:04"), true, false))
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	return slack.NewBlockMessage(blocks...)
}

// FormatDeletionNotification creates the Slack message for a withdrawn match.
func (n *SlackNotifier) FormatDeletionNotification(m *match.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🗑️ Match withdrawn", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s vs %s (%d - %d) was deleted and all ratings restored.",
		sideLabel(m, match.SideOne), sideLabel(m, match.SideTwo),
		m.Team1Score, m.Team2Score)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// sideLabel joins the side's player names, goalkeeper first.
func sideLabel(m *match.Match, side match.Side) string {
	var gk, atk string
	for _, p := range m.Players {
		if p.Side != side {
			continue
		}
		if p.Position == match.PositionGoalkeeper {
			gk = p.PlayerName
		} else {
			atk = p.PlayerName
		}
	}
	names := make([]string, 0, 2)
	for _, name := range []string{gk, atk} {
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " & ")
}
