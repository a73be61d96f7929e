package fetch

import "errors"

var (
	// ErrInvalidIdentifier is returned when a post/thread id or URL cannot be
	// turned into a request.
	ErrInvalidIdentifier = errors.New("invalid post id")

	// ErrUnexpectedResponse is returned when the backend answers with a body
	// that does not have the expected structure.
	ErrUnexpectedResponse = errors.New("the RFD API did not return the expected data")
)
