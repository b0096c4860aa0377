// Package notifier delivers rendered messages to a tenant's Slack channel.
package notifier

import (
	"context"
	"fmt"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/slack-go/slack"
)

type slackNotifier struct {
	client contract.SlackClient
}

// NewSlack returns a Notifier posting to Slack channels as the bot.
func NewSlack(client contract.SlackClient) contract.Notifier {
	return &slackNotifier{client: client}
}

func (n *slackNotifier) Send(ctx context.Context, channelRef, text string) error {
	_, _, err := n.client.PostMessageContext(ctx,
		channelRef,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(false),
	)
	if err != nil {
		return fmt.Errorf("failed to post to %s: %w: %w", channelRef, domain.ErrDeliveryFailed, err)
	}

	return nil
}
