package arena

import "github.com/pkg/errors"

var (
	ErrCarNotFound       = errors.New("car not found")
	ErrPadIndex          = errors.New("boost pad index out of range")
	ErrPadCountMismatch  = errors.New("boost pad count mismatch")
	ErrTickRateMismatch  = errors.New("tick rate mismatch")
	ErrDuplicateCarEntry = errors.New("duplicate car in game state")
)
