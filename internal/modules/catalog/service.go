package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/repository"
)

type Service struct {
	providers ProviderRepository
	services  ServiceRepository
	schedules ScheduleRepository
}

func NewService(providers ProviderRepository, services ServiceRepository, schedules ScheduleRepository) *Service {
	return &Service{
		providers: providers,
		services:  services,
		schedules: schedules,
	}
}

func (s *Service) ListProviders(ctx context.Context, limit, offset int) ([]domain.Provider, error) {
	return s.providers.List(ctx, limit, offset)
}

func (s *Service) GetProvider(ctx context.Context, id int64) (*ProviderDetails, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, id)
		}
		return nil, err
	}

	services, err := s.services.ListByProvider(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProviderDetails{Provider: *p, Services: services}, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: service %d", ErrNotFound, id)
		}
		return nil, err
	}
	return svc, nil
}

// CreateService adds a service under a provider the actor owns.
func (s *Service) CreateService(ctx context.Context, providerID, actorID int64, req CreateServiceRequest) (*domain.Service, error) {
	p, err := s.ownedProvider(ctx, providerID, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svc := &domain.Service{
		ProviderID:      p.ID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) SetServiceActive(ctx context.Context, serviceID, actorID int64, active bool) error {
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return err
	}
	if _, err := s.ownedProvider(ctx, svc.ProviderID, actorID); err != nil {
		return err
	}
	return s.services.SetActive(ctx, serviceID, active)
}

func (s *Service) GetSchedule(ctx context.Context, providerID int64) (domain.WeeklySchedule, error) {
	if _, err := s.providers.GetByID(ctx, providerID); err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, providerID)
		}
		return nil, err
	}
	return s.schedules.GetByProviderID(ctx, providerID)
}

// UpdateSchedule validates and replaces the provider's weekly hours. This is
// the only write path for schedules, so an invalid document never reaches
// slot generation.
func (s *Service) UpdateSchedule(ctx context.Context, providerID, actorID int64, ws domain.WeeklySchedule) error {
	if _, err := s.ownedProvider(ctx, providerID, actorID); err != nil {
		return err
	}

	if err := ws.Validate(); err != nil {
		if errors.Is(err, domain.ErrMalformedSchedule) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return err
	}

	return s.schedules.Upsert(ctx, providerID, ws)
}

func (s *Service) ownedProvider(ctx context.Context, providerID, actorID int64) (*domain.Provider, error) {
	p, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, providerID)
		}
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}
