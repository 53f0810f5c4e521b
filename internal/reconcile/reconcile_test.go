package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tendant/channel-keeper/internal/slack"
)

// fakeSlackAPI implements the slices of the Slack API the engine
// depends on, recording every call.
type fakeSlackAPI struct {
	pages      map[string]slack.ConversationsPage
	listErr    error
	listCalls  int
	lastParams slack.ListConversationsParams

	inviteErr   error
	inviteCalls []inviteCall

	openErr   error
	openCalls []string

	postErr   error
	postCalls []postCall
}

type inviteCall struct {
	channelID string
	userID    string
}

type postCall struct {
	channelID string
	text      string
}

func (f *fakeSlackAPI) ListConversations(_ context.Context, params slack.ListConversationsParams) (slack.ConversationsPage, error) {
	f.listCalls++
	f.lastParams = params
	if f.listErr != nil {
		return slack.ConversationsPage{}, f.listErr
	}
	return f.pages[params.Cursor], nil
}

func (f *fakeSlackAPI) InviteToConversation(_ context.Context, channelID, userID string) error {
	f.inviteCalls = append(f.inviteCalls, inviteCall{channelID: channelID, userID: userID})
	return f.inviteErr
}

func (f *fakeSlackAPI) OpenConversation(_ context.Context, userID string) (string, error) {
	f.openCalls = append(f.openCalls, userID)
	if f.openErr != nil {
		return "", f.openErr
	}
	return "D" + userID, nil
}

func (f *fakeSlackAPI) PostMessage(_ context.Context, channelID, text string) error {
	f.postCalls = append(f.postCalls, postCall{channelID: channelID, text: text})
	return f.postErr
}

// twoPageCatalog builds a catalog of total channels split into
// 1000-entry pages, with the target channel placed last.
func twoPageCatalog(total int, targetName, targetID string) map[string]slack.ConversationsPage {
	var channels []slack.Channel
	for i := 0; i < total-1; i++ {
		channels = append(channels, slack.Channel{
			ID:   fmt.Sprintf("C%04d", i),
			Name: fmt.Sprintf("general-%d", i),
		})
	}
	channels = append(channels, slack.Channel{ID: targetID, Name: targetName})

	pages := map[string]slack.ConversationsPage{}
	cursor := ""
	for i := 0; i < len(channels); i += 1000 {
		end := i + 1000
		next := fmt.Sprintf("cursor-%d", end)
		if end >= len(channels) {
			end = len(channels)
			next = ""
		}
		pages[cursor] = slack.ConversationsPage{
			Channels:   channels[i:end],
			NextCursor: next,
		}
		cursor = next
	}
	return pages
}

// captureHandler is a slog.Handler that records every log record, used
// to assert on log severity and content.
type captureHandler struct {
	mu      sync.Mutex
	records []capturedRecord
}

type capturedRecord struct {
	level slog.Level
	msg   string
	attrs map[string]string
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := map[string]string{}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, capturedRecord{level: r.Level, msg: r.Message, attrs: attrs})
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) errorRecords() []capturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []capturedRecord
	for _, r := range h.records {
		if r.level >= slog.LevelError {
			out = append(out, r)
		}
	}
	return out
}

func (h *captureHandler) hasErrorContaining(substr string) bool {
	for _, r := range h.errorRecords() {
		if strings.Contains(r.msg, substr) {
			return true
		}
		for _, v := range r.attrs {
			if strings.Contains(v, substr) {
				return true
			}
		}
	}
	return false
}
