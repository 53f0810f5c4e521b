package slack

import (
	"errors"
	"fmt"
)

// Error codes the reconciliation engine branches on. Slack reports them
// in the "error" field of an ok:false response envelope.
const (
	ErrCodeAlreadyInChannel = "already_in_channel"
	ErrCodeCantInviteSelf   = "cant_invite_self"
	ErrCodeChannelNotFound  = "channel_not_found"
	ErrCodeUsersNotFound    = "users_not_found"
)

// APIError is a Web API call that reached Slack and came back ok:false.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s failed: %s", e.Method, e.Code)
}

// ErrorCode returns the Slack error code carried by err, or "" when err
// is not an APIError (e.g. a transport failure).
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
