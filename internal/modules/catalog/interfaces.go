package catalog

import (
	"context"

	"servicebooking/internal/domain"
)

type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	List(ctx context.Context, limit, offset int) ([]domain.Provider, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.Service, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type ScheduleRepository interface {
	GetByProviderID(ctx context.Context, providerID int64) (domain.WeeklySchedule, error)
	Upsert(ctx context.Context, providerID int64, ws domain.WeeklySchedule) error
}
