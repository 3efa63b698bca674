package round

import "errors"

var (
	// ErrInvalidInput wraps roster, history or judge records that cannot be used.
	ErrInvalidInput = errors.New("invalid round input")
	// ErrDuplicateJudge is returned when two judge definitions share a name.
	ErrDuplicateJudge = errors.New("duplicate judge")
	// ErrReservedName is returned when a participant takes the bye's name.
	ErrReservedName = errors.New("name is reserved for the bye")
)
