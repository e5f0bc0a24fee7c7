package booking

import (
	"context"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/repository"
)

// BookingRepository is the persistence boundary for bookings. UpdateStatus,
// CancelWithReason and Reschedule are optimistic: they report false when the
// stored row was no longer in the expected state.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	OccupiedIntervals(ctx context.Context, providerID int64, from, to time.Time, excludeID int64) ([]repository.OccupiedInterval, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error)
	CancelWithReason(ctx context.Context, id int64, from domain.BookingStatus, reason string, at time.Time) (bool, error)
	Reschedule(ctx context.Context, id int64, start, end time.Time) (bool, error)
	SoftDelete(ctx context.Context, id int64) error
	ListDueForCompletion(ctx context.Context, now time.Time) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]repository.CustomerBookingRow, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.Booking, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

type ScheduleRepository interface {
	GetByProviderID(ctx context.Context, providerID int64) (domain.WeeklySchedule, error)
}

// NotificationSender delivers counter-party notifications. Calls are
// best-effort from the coordinator's point of view; failures never roll back
// a booking operation.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID int64, serviceName string, start time.Time) error
	NotifyBookingConfirmed(ctx context.Context, customerID, bookingID int64) error
	NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error
}
