package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateJudge  = errors.New("judge already registered")
	ErrDuplicateResult = errors.New("result already recorded")
	ErrRoundPlanned    = errors.New("round already planned")
	ErrInvalidRecord   = errors.New("invalid record")
)
