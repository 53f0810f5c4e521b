package reconcile

import (
	"context"
	"log/slog"

	"github.com/tendant/channel-keeper/internal/slack"
)

// ChannelInviter adds users to channels.
type ChannelInviter interface {
	InviteToConversation(ctx context.Context, channelID, userID string) error
}

// Notifier delivers the advisory direct message.
type Notifier interface {
	SendAdvisory(ctx context.Context, userID string) error
}

// inviteOutcome classifies the result of an invite call.
type inviteOutcome int

const (
	inviteOK inviteOutcome = iota
	inviteAlreadyMember
	inviteSelf
	inviteFailed
)

// Enforcer performs the corrective action for one user: ensure channel
// membership, then send the advisory DM. Neither step's failure is
// allowed to escape.
type Enforcer struct {
	logger   *slog.Logger
	api      ChannelInviter
	notifier Notifier
}

// NewEnforcer creates a new enforcer.
func NewEnforcer(logger *slog.Logger, api ChannelInviter, notifier Notifier) *Enforcer {
	return &Enforcer{
		logger:   logger,
		api:      api,
		notifier: notifier,
	}
}

// Enforce adds the user to the channel and sends the advisory note.
// Already-a-member and self-invite outcomes count as success. Other
// invite failures are logged with the raw Slack error code. The notify
// step runs regardless of the invite outcome; its failures are
// suppressed because restricted-DM users make them common and
// non-actionable.
func (e *Enforcer) Enforce(ctx context.Context, userID, channelID string) {
	outcome, err := e.invite(ctx, channelID, userID)
	if outcome == inviteFailed {
		e.logger.Error("channel invite failed",
			"user_id", userID,
			"channel_id", channelID,
			"code", slack.ErrorCode(err),
			"error", err,
		)
	}

	if err := e.notifier.SendAdvisory(ctx, userID); err != nil {
		e.logger.Debug("advisory dm failed", "user_id", userID, "error", err)
	}
}

func (e *Enforcer) invite(ctx context.Context, channelID, userID string) (inviteOutcome, error) {
	err := e.api.InviteToConversation(ctx, channelID, userID)
	if err == nil {
		return inviteOK, nil
	}
	switch slack.ErrorCode(err) {
	case slack.ErrCodeAlreadyInChannel:
		return inviteAlreadyMember, err
	case slack.ErrCodeCantInviteSelf:
		return inviteSelf, err
	default:
		return inviteFailed, err
	}
}
