package catalog

import "servicebooking/internal/domain"

type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"gte=0"`
}

type UpdateScheduleRequest struct {
	Hours domain.WeeklySchedule `json:"hours" binding:"required"`
}

type ProviderDetails struct {
	Provider domain.Provider  `json:"provider"`
	Services []domain.Service `json:"services"`
}
