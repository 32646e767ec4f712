package dsl

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyOptionName = errors.New("empty option name")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrUnterminated    = errors.New("unterminated sub-pipeline")
	ErrMissingSeed     = errors.New("sub-pipeline needs a seed")
	ErrUnexpectedToken = errors.New("unexpected token")
)

// ParseError reports a malformed command with the token it failed on.
type ParseError struct {
	Token string
	// AtEnd is set when the input ended before the command was complete.
	AtEnd bool
	Err   error
}

func (e *ParseError) Error() string {
	if e.AtEnd {
		return fmt.Sprintf("parse error at end of input: %v", e.Err)
	}

	return fmt.Sprintf("parse error at %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
