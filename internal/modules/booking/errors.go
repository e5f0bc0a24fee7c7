package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("not found")
	ErrForbidden               = errors.New("forbidden")
	ErrServiceNotActive        = errors.New("service is not active")
	ErrBookingTime             = errors.New("requested time is outside service hours or in the past")
	ErrSlotUnavailable         = errors.New("slot is no longer available")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
)
