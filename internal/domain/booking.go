package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	ServiceID  int64     `json:"service_id" validate:"required"`
	ProviderID int64     `json:"provider_id"`
	CustomerID int64     `json:"customer_id" validate:"required"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time"`

	Status BookingStatus `json:"status"`
	Notes  string        `json:"notes,omitempty"`

	// Filled on cancellation; the row itself is never hard-deleted.
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	IsDeleted          bool       `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Service  *Service  `json:"service,omitempty"`
	Customer *User     `json:"customer,omitempty"`
	Provider *Provider `json:"provider,omitempty"`
}

// Interval projects the booking to its occupied [start, end) time range.
func (b *Booking) Interval() (time.Time, time.Time) {
	return b.StartTime, b.EndTime
}
