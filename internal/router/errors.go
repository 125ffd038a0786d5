package router

import "errors"

// Router contract errors.
var (
	ErrUnknownType = errors.New("unknown message type")
	ErrUnhandled   = errors.New("no handler registered for message type")
	ErrBadPayload  = errors.New("malformed message payload")
)
