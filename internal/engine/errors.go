package engine

import "errors"

// Error kinds surfaced by Analyze. The API layer maps these onto HTTP
// statuses; InvalidInput and PayloadTooLarge carry caller-visible
// messages, the rest are logged in detail and surfaced generically.
var (
	ErrInvalidInput    = errors.New("text is required and must be a string")
	ErrPayloadTooLarge = errors.New("text exceeds the maximum allowed length")
	ErrTimeout         = errors.New("analysis exceeded its time budget")
	ErrOverloaded      = errors.New("analysis workers are saturated")
	ErrCancelled       = errors.New("analysis cancelled by caller")
	ErrInternal        = errors.New("unexpected analysis failure")
)
