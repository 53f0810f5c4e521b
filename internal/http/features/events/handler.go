package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/tendant/channel-keeper/internal/domain"
	"github.com/tendant/channel-keeper/internal/httputil"
)

// Reconciler consumes membership events.
type Reconciler interface {
	Handle(ctx context.Context, event domain.MembershipEvent)
}

// Handler receives Slack Events API deliveries.
type Handler struct {
	logger     *slog.Logger
	reconciler Reconciler
}

// NewHandler creates a new events handler.
func NewHandler(logger *slog.Logger, reconciler Reconciler) *Handler {
	return &Handler{
		logger:     logger,
		reconciler: reconciler,
	}
}

// envelope is the outer Events API payload.
type envelope struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	Event     json.RawMessage `json:"event"`
}

// innerEvent is the event inside an event_callback envelope. The user
// field is a plain id for channel membership events but an object for
// team_join, so it is decoded lazily.
type innerEvent struct {
	Type    string          `json:"type"`
	User    json.RawMessage `json:"user"`
	Channel string          `json:"channel"`
}

func (e innerEvent) userID() string {
	var id string
	if err := json.Unmarshal(e.User, &id); err == nil {
		return id
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(e.User, &user); err == nil {
		return user.ID
	}
	return ""
}

// Receive handles one Events API delivery.
// POST /slack/events
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch env.Type {
	case "url_verification":
		// Slack's endpoint handshake.
		httputil.JSON(w, http.StatusOK, map[string]string{"challenge": env.Challenge})

	case "event_callback":
		event, ok := h.mapEvent(env.Event)
		// Ack before the corrective action runs: Slack redelivers on
		// slow responses, and enforcement can take several round trips.
		w.WriteHeader(http.StatusOK)
		if ok {
			go h.dispatch(event)
		}

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// mapEvent translates a Slack event into a membership event. Events the
// engine does not act on map to nothing and are acked untouched.
func (h *Handler) mapEvent(raw json.RawMessage) (domain.MembershipEvent, bool) {
	var inner innerEvent
	if err := json.Unmarshal(raw, &inner); err != nil {
		h.logger.Warn("unparseable event payload", "error", err)
		return nil, false
	}

	userID := inner.userID()
	switch inner.Type {
	case "team_join":
		if userID == "" {
			return nil, false
		}
		return domain.WorkspaceJoin{UserID: userID}, true
	case "member_left_channel":
		if userID == "" || inner.Channel == "" {
			return nil, false
		}
		return domain.ChannelLeave{UserID: userID, ChannelID: inner.Channel}, true
	case "member_joined_channel":
		return domain.ChannelJoin{UserID: userID, ChannelID: inner.Channel}, true
	default:
		return nil, false
	}
}

// dispatch runs the reconciler on its own task so a slow or panicking
// handler cannot stall acknowledgment or kill the process.
func (h *Handler) dispatch(event domain.MembershipEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("event handler panicked",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()

	h.reconciler.Handle(context.Background(), event)
}
