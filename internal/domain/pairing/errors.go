package pairing

import "errors"

var (
	// ErrNoParticipants is returned when there is nobody to pair.
	ErrNoParticipants = errors.New("no participants to pair")
	// ErrOddParticipants is returned when the field has no perfect matching.
	// Callers add the bye before pairing.
	ErrOddParticipants = errors.New("odd number of participants")
	// ErrUnknownStrategy is returned by ParseStrategy.
	ErrUnknownStrategy = errors.New("unknown pairing strategy")
)
