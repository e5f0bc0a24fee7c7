package availability

import (
	"context"
	"fmt"
	"time"

	"servicebooking/internal/pkg/clock"
	"servicebooking/internal/repository"
)

// Service is the read-only slot query surface consumed by the API layer.
type Service struct {
	services  ServiceRepository
	schedules ScheduleRepository
	bookings  BookingRepository
	generator Generator
	clock     clock.Clock
}

func NewService(
	services ServiceRepository,
	schedules ScheduleRepository,
	bookings BookingRepository,
	generator Generator,
	clk clock.Clock,
) *Service {
	return &Service{
		services:  services,
		schedules: schedules,
		bookings:  bookings,
		generator: generator,
		clock:     clk,
	}
}

// ListAvailableSlots returns the bookable start times for the service on the
// given "2006-01-02" date, against freshly loaded occupancy.
func (s *Service) ListAvailableSlots(ctx context.Context, serviceID int64, dateStr string) ([]time.Time, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrValidation
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: service %d", ErrNotFound, serviceID)
		}
		return nil, err
	}

	ws, err := s.schedules.GetByProviderID(ctx, svc.ProviderID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.occupiedForDay(ctx, svc.ProviderID, day, 0)
	if err != nil {
		return nil, err
	}

	return s.generator.Slots(ws, day, svc.Duration(), occupied, s.clock.Now())
}

// OccupiedForDay exposes the day's occupancy as generator intervals; the
// booking coordinator reuses it for commit-time rechecks.
func (s *Service) OccupiedForDay(ctx context.Context, providerID int64, day time.Time, excludeID int64) ([]Interval, error) {
	return s.occupiedForDay(ctx, providerID, day, excludeID)
}

func (s *Service) occupiedForDay(ctx context.Context, providerID int64, day time.Time, excludeID int64) ([]Interval, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.bookings.OccupiedIntervals(ctx, providerID, dayStart, dayEnd, excludeID)
	if err != nil {
		return nil, err
	}

	out := make([]Interval, 0, len(rows))
	for _, r := range rows {
		out = append(out, Interval{Start: r.Start, End: r.End})
	}
	return out, nil
}
