package availability

import (
	"context"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/repository"
)

// ServiceRepository resolves the service being queried.
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleRepository loads the provider's weekly hours.
type ScheduleRepository interface {
	GetByProviderID(ctx context.Context, providerID int64) (domain.WeeklySchedule, error)
}

// BookingRepository supplies the occupied intervals for a provider day.
type BookingRepository interface {
	OccupiedIntervals(ctx context.Context, providerID int64, from, to time.Time, excludeID int64) ([]repository.OccupiedInterval, error)
}
