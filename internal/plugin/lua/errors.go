package lua

import "errors"

// Errors for Lua state and script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrInvalidMark is returned when a script declares a mark without a
	// usable name or type.
	ErrInvalidMark = errors.New("invalid mark declaration")
)
