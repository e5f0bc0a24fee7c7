package booking

import (
	"context"
	"fmt"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/modules/availability"
	"servicebooking/internal/pkg/clock"
	"servicebooking/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service coordinates booking create/reschedule/confirm/cancel/complete. All
// collaborators arrive as typed interfaces; there is no ambient lookup. The
// no-overlap invariant is enforced twice: a guard against fresh occupancy
// here, and the store's unique index for the concurrent case.
type Service struct {
	bookings  BookingRepository
	services  ServiceRepository
	providers ProviderRepository
	schedules ScheduleRepository
	notifs    NotificationSender
	generator availability.Generator
	clock     clock.Clock
	log       *zap.Logger
}

func NewService(
	bookings BookingRepository,
	services ServiceRepository,
	providers ProviderRepository,
	schedules ScheduleRepository,
	notifs NotificationSender,
	generator availability.Generator,
	clk clock.Clock,
	log *zap.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		services:  services,
		providers: providers,
		schedules: schedules,
		notifs:    notifs,
		generator: generator,
		clock:     clk,
		log:       log.With(zap.String("service", "booking")),
	}
}

// Create books a slot for the customer. The requested start must be a slot
// the generator would produce for that date, checked against occupancy loaded
// at commit time, not at display time.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: service %d", ErrNotFound, req.ServiceID)
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceNotActive
	}

	start := req.StartTime.UTC()
	if err := s.guardInterval(ctx, svc, start, 0); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	b := &domain.Booking{
		Reference:  uuid.NewString(),
		ServiceID:  svc.ID,
		ProviderID: svc.ProviderID,
		CustomerID: customerID,
		StartTime:  start,
		EndTime:    start.Add(svc.Duration()),
		Status:     domain.BookingPending,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if repository.IsUniqueViolation(err, repository.NoDoubleBookingIndex) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	if provider, perr := s.providers.GetByID(ctx, svc.ProviderID); perr == nil {
		if nerr := s.notifs.NotifyBookingCreated(ctx, provider.OwnerID, b.ID, svc.Name, b.StartTime); nerr != nil {
			s.log.Warn("booking created notification failed",
				zap.Int64("booking_id", b.ID), zap.Error(nerr))
		}
	}

	return b, nil
}

// Reschedule moves a pending or confirmed booking to a new start, re-running
// the create guard with the booking's own interval excluded from occupancy.
func (s *Service) Reschedule(ctx context.Context, bookingID, customerID int64, newStart time.Time) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return nil, fmt.Errorf("%w: cannot reschedule a %s booking", ErrInvalidStatusTransition, b.Status)
	}

	svc, err := s.services.GetByID(ctx, b.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceNotActive
	}

	start := newStart.UTC()
	if err := s.guardInterval(ctx, svc, start, b.ID); err != nil {
		return nil, err
	}

	ok, err := s.bookings.Reschedule(ctx, b.ID, start, start.Add(svc.Duration()))
	if err != nil {
		if repository.IsUniqueViolation(err, repository.NoDoubleBookingIndex) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	if !ok {
		// Status moved under us between the read and the write.
		return nil, fmt.Errorf("%w: booking is no longer reschedulable", ErrInvalidStatusTransition)
	}

	return s.getBooking(ctx, b.ID)
}

// Confirm is the provider-side pending -> confirmed transition.
func (s *Service) Confirm(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	provider, err := s.providers.GetByID(ctx, b.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider.OwnerID != actorID {
		return nil, ErrForbidden
	}

	next, err := Transition(b.Status, domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}

	ok, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidStatusTransition)
	}

	if nerr := s.notifs.NotifyBookingConfirmed(ctx, b.CustomerID, b.ID); nerr != nil {
		s.log.Warn("booking confirmed notification failed",
			zap.Int64("booking_id", b.ID), zap.Error(nerr))
	}

	return s.getBooking(ctx, b.ID)
}

// Cancel moves a pending or confirmed booking to cancelled, records the
// reason, tombstones the row and notifies the counter-party. The notification
// is best-effort: a failure is logged and the cancellation stands.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	provider, err := s.providers.GetByID(ctx, b.ProviderID)
	if err != nil {
		return nil, err
	}
	if actorID != b.CustomerID && actorID != provider.OwnerID {
		return nil, ErrForbidden
	}

	if _, err := Transition(b.Status, domain.BookingCancelled); err != nil {
		return nil, err
	}

	ok, err := s.bookings.CancelWithReason(ctx, b.ID, b.Status, reason, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidStatusTransition)
	}

	if err := s.bookings.SoftDelete(ctx, b.ID); err != nil {
		return nil, err
	}

	counterparty := b.CustomerID
	if actorID == b.CustomerID {
		counterparty = provider.OwnerID
	}
	if nerr := s.notifs.NotifyBookingCancelled(ctx, counterparty, b.ID, reason); nerr != nil {
		s.log.Warn("booking cancelled notification failed",
			zap.Int64("booking_id", b.ID), zap.Error(nerr))
	}

	return s.getBooking(ctx, b.ID)
}

// Complete moves a confirmed booking whose end has passed to completed.
// Calling it on an already completed booking is a no-op, so the periodic
// sweep can safely re-process the same rows.
func (s *Service) Complete(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCompleted {
		return b, nil
	}

	next, err := Transition(b.Status, domain.BookingCompleted)
	if err != nil {
		return nil, err
	}
	if b.EndTime.After(s.clock.Now()) {
		return nil, fmt.Errorf("%w: booking has not ended yet", ErrBookingTime)
	}

	ok, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Re-check: a concurrent sweep may have won the same write.
		b, err = s.getBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if b.Status == domain.BookingCompleted {
			return b, nil
		}
		return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidStatusTransition)
	}

	return s.getBooking(ctx, b.ID)
}

// CompleteDue sweeps all confirmed bookings whose end time has passed.
// Returns the number of bookings completed.
func (s *Service) CompleteDue(ctx context.Context) (int, error) {
	due, err := s.bookings.ListDueForCompletion(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, b := range due {
		if _, err := s.Complete(ctx, b.ID); err != nil {
			s.log.Warn("completion sweep skipped booking",
				zap.Int64("booking_id", b.ID), zap.Error(err))
			continue
		}
		completed++
	}
	return completed, nil
}

func (s *Service) MyBookings(ctx context.Context, customerID int64, limit, offset int) ([]BookingDetails, error) {
	rows, err := s.bookings.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]BookingDetails, 0, len(rows))
	for _, r := range rows {
		out = append(out, BookingDetails{
			ID:           r.ID,
			Reference:    r.Reference,
			Status:       r.Status,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			ServiceID:    r.ServiceID,
			ServiceName:  r.ServiceName,
			ProviderID:   r.ProviderID,
			ProviderName: r.ProviderName,
		})
	}
	return out, nil
}

func (s *Service) ProviderBookings(ctx context.Context, providerID, actorID int64) ([]domain.Booking, error) {
	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, providerID)
		}
		return nil, err
	}
	if provider.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return s.bookings.ListByProvider(ctx, providerID)
}

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

// guardInterval re-derives the slot set for the requested date and rejects a
// start that is in the past, off the slot grid, or already occupied. The
// occupancy read happens here, at commit time; display-time slot lists are
// advisory only.
func (s *Service) guardInterval(ctx context.Context, svc *domain.Service, start time.Time, excludeBookingID int64) error {
	now := s.clock.Now()
	if start.Before(now) {
		return fmt.Errorf("%w: start is in the past", ErrBookingTime)
	}

	ws, err := s.schedules.GetByProviderID(ctx, svc.ProviderID)
	if err != nil {
		return err
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	// Alignment and service-hours check against the raw grid, ignoring
	// occupancy so the two failure modes stay distinguishable.
	grid, err := s.generator.Slots(ws, day, svc.Duration(), nil, now)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !containsTime(grid, start) {
		return fmt.Errorf("%w: %s does not align with service hours", ErrBookingTime, start.Format("15:04"))
	}

	occupied, err := s.bookings.OccupiedIntervals(ctx, svc.ProviderID, day, day.Add(24*time.Hour), excludeBookingID)
	if err != nil {
		return err
	}
	end := start.Add(svc.Duration())
	for _, occ := range occupied {
		if availability.Overlaps(start, end, occ.Start, occ.End) {
			return ErrSlotUnavailable
		}
	}
	return nil
}

func containsTime(ts []time.Time, t time.Time) bool {
	for _, v := range ts {
		if v.Equal(t) {
			return true
		}
	}
	return false
}
