package domain

import (
	"errors"
	"fmt"
)

// Exported error variables allow callers to use errors.Is() for error checking.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrPrecondition  = errors.New("precondition not met")
	ErrNameCollision = errors.New("name already exists")
)

// Name validation errors. Each one also matches ErrInvalidInput.
var (
	ErrNameEmpty        = fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	ErrNameDot          = fmt.Errorf("%w: name cannot be '.' or '..'", ErrInvalidInput)
	ErrNameNonPrintable = fmt.Errorf("%w: name contains non-printable characters", ErrInvalidInput)
	ErrNameInvalidChars = fmt.Errorf("%w: name contains invalid characters (<>:\"/|?*)", ErrInvalidInput)
	ErrNameReserved     = fmt.Errorf("%w: name is a reserved system filename", ErrInvalidInput)
	ErrNameNullByte     = fmt.Errorf("%w: name contains null byte", ErrInvalidInput)
	ErrNameLeadingDot   = fmt.Errorf("%w: name cannot start with '.'", ErrInvalidInput)
	ErrNamePayload      = fmt.Errorf("%w: name is a profile save filename", ErrInvalidInput)
)
