package booking

import "time"

type CreateBookingRequest struct {
	ServiceID int64     `json:"service_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	Notes     string    `json:"notes"`
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BookingDetails struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	ServiceID    int64     `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	ProviderID   int64     `json:"provider_id"`
	ProviderName string    `json:"provider_name"`
}
