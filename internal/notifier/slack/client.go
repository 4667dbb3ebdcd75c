package slack

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/kickerlog/kickerlog/internal/metrics"
	"github.com/kickerlog/kickerlog/internal/notifier"
	"github.com/slack-go/slack"
)

var _ notifier.Notifier = (*SlackNotifier)(nil)

// NewNotifier creates a new Slack notifier.
func NewNotifier(token, channelID string, m metrics.Metrics) *SlackNotifier {
	return &SlackNotifier{
		api:       slack.New(token),
		channelID: channelID,
		metrics:   m,
	}
}

// NewNotifierWithAPI creates a notifier with a custom API client. Used for testing.
func NewNotifierWithAPI(api *slack.Client, channelID string, m metrics.Metrics) *SlackNotifier {
	return &SlackNotifier{
		api:       api,
		channelID: channelID,
		metrics:   m,
	}
}

// MatchRecorded posts the result message for a freshly recorded match.
func (n *SlackNotifier) MatchRecorded(m *match.Match) error {
	return n.post(n.FormatResultNotification(m), m.ID)
}

// MatchDeleted posts a short note that a match was withdrawn and ratings rolled back.
func (n *SlackNotifier) MatchDeleted(m *match.Match) error {
	return n.post(n.FormatDeletionNotification(m), m.ID)
}

func (n *SlackNotifier) post(msg slack.Message, matchID int64) error {
	if n.api == nil || n.channelID == "" {
		log.Warn("Slack client or channel ID is not configured. Skipping notification.")
		return errors.New("slack client or channel ID is not configured")
	}

	_, _, err := n.api.PostMessage(n.channelID, slack.MsgOptionBlocks(msg.Blocks.BlockSet...))
	if err != nil {
		log.Error("Failed to send Slack message", "error", err, "matchID", matchID)
		if n.metrics != nil {
			n.metrics.IncSlackNotifFailed()
		}
		return err
	}
	if n.metrics != nil {
		n.metrics.IncSlackNotifSent()
	}
	return nil
}
