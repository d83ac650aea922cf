package models

import (
	"errors"
)

var (
	ErrInvalidSteps   = errors.New("number of forecast steps must be non-negative")
	ErrInvalidModel   = errors.New("invalid model state")
	ErrUnknownFeature = errors.New("unknown feature type")
	ErrNonFinite      = errors.New("non-finite model parameter")
)
