package trivia

import "errors"

// The service reports failures as exactly one of these kinds. Handlers map
// them to HTTP status codes at the boundary and nowhere else.
var (
	// ErrNotFound covers missing resources and empty result sets alike.
	ErrNotFound = errors.New("not found")
	// ErrUnprocessable covers store mutations that could not be applied.
	ErrUnprocessable = errors.New("unprocessable")
	// ErrBadRequest covers malformed request input.
	ErrBadRequest = errors.New("bad request")
)
