package slack

import (
	"github.com/kickerlog/kickerlog/internal/metrics"
	"github.com/slack-go/slack"
)

// SlackNotifier is a wrapper around the official slack-go client.
type SlackNotifier struct {
	api       *slack.Client
	channelID string
	metrics   metrics.Metrics
}
