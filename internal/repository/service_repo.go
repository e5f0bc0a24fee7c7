package repository

import (
	"context"
	"time"

	"servicebooking/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	ProviderID      int64     `gorm:"column:provider_id;index"`
	Name            string    `gorm:"column:name"`
	Description     *string   `gorm:"column:description"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
	Price           float64   `gorm:"column:price"`
	IsActive        bool      `gorm:"column:is_active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	return &domain.Service{
		ID:              m.ID,
		ProviderID:      m.ProviderID,
		Name:            m.Name,
		Description:     desc,
		DurationMinutes: m.DurationMinutes,
		Price:           m.Price,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	var desc *string
	if s.Description != "" {
		v := s.Description
		desc = &v
	}

	return serviceModel{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		Name:            s.Name,
		Description:     desc,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Service, error) {
	var models []serviceModel
	tx := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("name ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Service, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainService(m))
	}
	return out, nil
}

func (r *ServiceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
