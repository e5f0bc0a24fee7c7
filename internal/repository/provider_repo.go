package repository

import (
	"context"
	"time"

	"servicebooking/internal/domain"

	"gorm.io/gorm"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

type providerModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	OwnerID     int64      `gorm:"column:owner_id;index"`
	Name        string     `gorm:"column:name"`
	Description *string    `gorm:"column:description"`
	City        *string    `gorm:"column:city"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
}

func (providerModel) TableName() string { return "providers" }

func toDomainProvider(m providerModel) *domain.Provider {
	var desc, city string
	if m.Description != nil {
		desc = *m.Description
	}
	if m.City != nil {
		city = *m.City
	}

	return &domain.Provider{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: desc,
		City:        city,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   m.DeletedAt,
	}
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	var desc, city *string
	if p.Description != "" {
		v := p.Description
		desc = &v
	}
	if p.City != "" {
		v := p.City
		city = &v
	}

	m := providerModel{
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: desc,
		City:        city,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProvider(m)
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	var m providerModel
	tx := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProvider(m), nil
}

func (r *ProviderRepository) List(ctx context.Context, limit, offset int) ([]domain.Provider, error) {
	var models []providerModel
	tx := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Provider, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainProvider(m))
	}
	return out, nil
}
