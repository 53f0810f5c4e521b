package notification

import (
	"context"
	"fmt"
)

// Conversations is the slice of the Slack API needed to deliver a
// direct message.
type Conversations interface {
	OpenConversation(ctx context.Context, userID string) (string, error)
	PostMessage(ctx context.Context, channelID, text string) error
}

// DMService sends the advisory direct message users receive when they
// are (re)added to the broadcast channel.
type DMService struct {
	api  Conversations
	note string
}

// NewDMService creates a new DM service with the configured advisory text.
func NewDMService(api Conversations, note string) *DMService {
	return &DMService{api: api, note: note}
}

// SendAdvisory opens a direct conversation with the user and posts the
// advisory note.
func (s *DMService) SendAdvisory(ctx context.Context, userID string) error {
	conversationID, err := s.api.OpenConversation(ctx, userID)
	if err != nil {
		return fmt.Errorf("open conversation: %w", err)
	}
	if err := s.api.PostMessage(ctx, conversationID, s.note); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}
