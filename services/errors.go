package services

import (
	"errors"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrDuplicateOrInvalidName = errors.New("duplicate or invalid player name")
	ErrInvalidPlayers         = errors.New("invalid players")
	ErrInvalidTargetScore     = errors.New("invalid target score")
	ErrPlayerHasHistory       = errors.New("cannot delete player with game history")
)

// NameError is a rejected player name. Both variants match
// ErrDuplicateOrInvalidName.
type NameError struct {
	msg string
}

func (e *NameError) Error() string {
	return e.msg
}

func (e *NameError) Is(target error) bool {
	return target == ErrDuplicateOrInvalidName
}

var (
	ErrInvalidName   = &NameError{msg: "name cannot be empty"}
	ErrDuplicateName = &NameError{msg: "player with this name already exists"}
)
