package engine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownChoice   = errors.New("choice must be rock, paper or scissors")
	ErrOutOfBounds     = fmt.Errorf("cell is outside the %dx%d canvas", CanvasSize, CanvasSize)
	ErrInvalidColor    = errors.New("color must be a #rgb or #rrggbb hex value")
	ErrUnknownItem     = errors.New("unknown item")
	ErrRoundInProgress = errors.New("a round is already in progress")
)

// ParseError reports a persisted value that could not be decoded. Hydration
// logs it and keeps the in-memory value.
type ParseError struct {
	Key string
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Key, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }
