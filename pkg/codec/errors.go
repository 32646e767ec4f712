package codec

import "github.com/pkg/errors"

var (
	ErrMissingOption  = errors.New("missing required option")
	ErrInvalidOption  = errors.New("invalid option")
	ErrCannotDecode   = errors.New("codec has no decode direction")
	ErrEmptyName      = errors.New("codec name must be set")
	ErrDuplicateName  = errors.New("codec already registered")
	ErrCodecMustBeSet = errors.New("codec must be set")
	ErrRegistryBuilt  = errors.New("registry already built")
	ErrNeedsRegistry  = errors.New("codec must be run with a registry")
)
