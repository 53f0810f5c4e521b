package domain

import "errors"

// Reconciliation errors
var (
	ErrChannelNotFound = errors.New("channel not found")
)
