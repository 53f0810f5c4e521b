package reconcile

import (
	"context"
	"log/slog"

	"github.com/tendant/channel-keeper/internal/domain"
)

// Reconciler maps membership events onto corrective actions for the
// target channel.
type Reconciler struct {
	logger   *slog.Logger
	resolver *Resolver
	enforcer *Enforcer
}

// NewReconciler creates a new reconciler.
func NewReconciler(logger *slog.Logger, resolver *Resolver, enforcer *Enforcer) *Reconciler {
	return &Reconciler{
		logger:   logger,
		resolver: resolver,
		enforcer: enforcer,
	}
}

// Handle processes one membership event. It never fails: every error is
// classified, logged and dropped so the transport keeps acknowledging
// deliveries. A failed channel resolution drops the event; the next
// qualifying event retries the lookup.
func (r *Reconciler) Handle(ctx context.Context, event domain.MembershipEvent) {
	switch ev := event.(type) {
	case domain.WorkspaceJoin:
		channelID, err := r.resolver.Resolve(ctx)
		if err != nil {
			r.logger.Error("target channel resolution failed", "user_id", ev.UserID, "error", err)
			return
		}
		r.enforcer.Enforce(ctx, ev.UserID, channelID)

	case domain.ChannelLeave:
		channelID, err := r.resolver.Resolve(ctx)
		if err != nil {
			r.logger.Error("target channel resolution failed", "user_id", ev.UserID, "error", err)
			return
		}
		if ev.ChannelID != channelID {
			// A leave from some other channel is not ours to correct.
			return
		}
		r.enforcer.Enforce(ctx, ev.UserID, channelID)

	case domain.ChannelJoin:
		// Observed for visibility only.
		r.logger.Debug("member joined channel", "user_id", ev.UserID, "channel_id", ev.ChannelID)
	}
}
