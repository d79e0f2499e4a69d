package models

import "github.com/pkg/errors"

var (
	ErrIllegalTransition = errors.New("illegal car state transition")
	ErrInvariantViolated = errors.New("car state invariant violated")
	ErrUnknownArchetype  = errors.New("unknown car archetype")
	ErrUnknownTeam       = errors.New("unknown team")
)
