package availability

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrNotFound        = errors.New("not found")
)
