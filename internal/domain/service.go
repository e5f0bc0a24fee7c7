package domain

import "time"

type Service struct {
	ID              int64     `json:"id"`
	ProviderID      int64     `json:"provider_id"`
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64   `json:"price" validate:"gte=0"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
