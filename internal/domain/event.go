package domain

// MembershipEvent is a workspace or channel membership change delivered
// by the event transport. Events are consumed once and not retained.
type MembershipEvent interface {
	membershipEvent()
}

// WorkspaceJoin signals that a user joined the workspace.
type WorkspaceJoin struct {
	UserID string
}

// ChannelLeave signals that a user left a channel.
type ChannelLeave struct {
	UserID    string
	ChannelID string
}

// ChannelJoin signals that a user joined a channel. Observed only; no
// corrective action is taken.
type ChannelJoin struct {
	UserID    string
	ChannelID string
}

func (WorkspaceJoin) membershipEvent() {}
func (ChannelLeave) membershipEvent()  {}
func (ChannelJoin) membershipEvent()   {}
