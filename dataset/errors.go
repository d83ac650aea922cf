package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrLoad               = errors.New("unable to load historical data")
	ErrFileNotFound       = errors.New("historical data file not found")
	ErrUnsupportedFormat  = errors.New("unsupported historical data format")
	ErrMalformed          = errors.New("malformed historical data")
	ErrMissingColumn      = errors.New("required column missing")
	ErrTimestampFormat    = errors.New("timestamp does not match expected format")
	ErrDuplicateTimestamp = errors.New("duplicate timestamp")
	ErrUnknownColumn      = errors.New("column not present in historical data")
)

// LoadError is returned by Load for every failure. It matches ErrLoad as well as the specific
// cause with errors.Is.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load historical data from %s, %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}
