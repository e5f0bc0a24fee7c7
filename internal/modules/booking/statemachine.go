package booking

import (
	"fmt"

	"servicebooking/internal/domain"
)

// Booking lifecycle: pending -> confirmed -> completed, with cancellation
// possible from pending or confirmed. Cancelled and completed are terminal.
var transitions = map[domain.BookingStatus]map[domain.BookingStatus]bool{
	domain.BookingPending: {
		domain.BookingConfirmed: true,
		domain.BookingCancelled: true,
	},
	domain.BookingConfirmed: {
		domain.BookingCompleted: true,
		domain.BookingCancelled: true,
	},
}

func CanTransition(from, to domain.BookingStatus) bool {
	return transitions[from][to]
}

func IsTerminal(s domain.BookingStatus) bool {
	return len(transitions[s]) == 0
}

// Transition returns the new status, or ErrInvalidStatusTransition when the
// move is not part of the lifecycle. Pure; persistence happens elsewhere.
func Transition(from, to domain.BookingStatus) (domain.BookingStatus, error) {
	if !CanTransition(from, to) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
	}
	return to, nil
}
