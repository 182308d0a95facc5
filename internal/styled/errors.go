package styled

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks a malformed score table or option set.
	ErrConfig = errors.New("config error")
	// ErrInput marks malformed token data or an empty stream where one is required.
	ErrInput = errors.New("input error")
	// ErrInvalidArgument marks a caller-supplied argument outside the accepted values.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrLocate is returned when the amendment region marker is missing or ambiguous.
	ErrLocate = errors.New("locate error")
	// ErrStructure is returned when the amendment preamble does not have the expected shape.
	ErrStructure = errors.New("structure error")
)

func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}
