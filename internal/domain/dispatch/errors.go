package dispatch

import "errors"

// Dispatch failures surfaced to callers. Session and identity errors pass
// through from their own packages unchanged.
var (
	ErrUnknownType    = errors.New("unknown request type")
	ErrHandlerFailed  = errors.New("handler failed")
	ErrHandlerTimeout = errors.New("handler timed out")
	ErrDuplicateType  = errors.New("request type already registered")
)
