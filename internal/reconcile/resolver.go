package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/tendant/channel-keeper/internal/domain"
	"github.com/tendant/channel-keeper/internal/slack"
)

// ChannelLister is the slice of the Slack API the resolver depends on.
type ChannelLister interface {
	ListConversations(ctx context.Context, params slack.ListConversationsParams) (slack.ConversationsPage, error)
}

// Resolver resolves the target channel's id by name and caches it for
// the life of the process. Lookup is read-only; the cached id is the
// only state this service owns.
type Resolver struct {
	api       ChannelLister
	name      string
	pageLimit int

	mu sync.Mutex
	id string
}

// NewResolver creates a resolver for the named channel. pageLimit caps
// the catalog page size; values outside Slack's accepted range fall
// back to 1000.
func NewResolver(api ChannelLister, name string, pageLimit int) *Resolver {
	if pageLimit < 1 || pageLimit > 1000 {
		pageLimit = 1000
	}
	return &Resolver{
		api:       api,
		name:      name,
		pageLimit: pageLimit,
	}
}

// Resolve returns the target channel id, looking it up on first use.
// Once resolved the id is authoritative for the rest of the process
// lifetime. A failed lookup leaves the cache empty so the next call
// retries. The lock is held across the lookup, which also collapses
// concurrent first-use resolutions into a single catalog scan.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != "" {
		return r.id, nil
	}

	id, err := r.lookup(ctx)
	if err != nil {
		return "", err
	}
	r.id = id
	return id, nil
}

// lookup pages through the full catalog of public and private channels
// visible to the bot, scanning each page for an exact name match.
func (r *Resolver) lookup(ctx context.Context) (string, error) {
	cursor := ""
	for {
		page, err := r.api.ListConversations(ctx, slack.ListConversationsParams{
			Types:  "public_channel,private_channel",
			Limit:  r.pageLimit,
			Cursor: cursor,
		})
		if err != nil {
			return "", fmt.Errorf("list conversations: %w", err)
		}
		for _, ch := range page.Channels {
			if ch.Name == r.name {
				return ch.ID, nil
			}
		}
		cursor = page.NextCursor
		if cursor == "" {
			return "", fmt.Errorf("%w: %s", domain.ErrChannelNotFound, r.name)
		}
	}
}
