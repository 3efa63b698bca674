package simulate

import "errors"

var (
	// ErrUnexpectedStatus is returned when the service answers with an unexpected status code.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInvalidPlan is returned when a planned round breaks a pairing or judging rule.
	ErrInvalidPlan = errors.New("invalid round plan")
	// ErrInvalidStandings is returned when the standings table is inconsistent.
	ErrInvalidStandings = errors.New("invalid standings")
)
