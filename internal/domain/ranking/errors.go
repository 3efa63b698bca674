package ranking

import "errors"

var (
	// ErrInvalidRecord is returned when a match record cannot be merged.
	ErrInvalidRecord = errors.New("invalid match record")
	// ErrUnknownParticipant is returned by lookups for names the book has not seen.
	ErrUnknownParticipant = errors.New("unknown participant")
)
