package repository

import (
	"context"
	"time"

	"servicebooking/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	Reference          string     `gorm:"column:reference;uniqueIndex"`
	ServiceID          int64      `gorm:"column:service_id;index"`
	ProviderID         int64      `gorm:"column:provider_id;index"`
	CustomerID         int64      `gorm:"column:customer_id;index"`
	StartTime          time.Time  `gorm:"column:start_time"`
	EndTime            time.Time  `gorm:"column:end_time"`
	Status             string     `gorm:"column:status;index"`
	Notes              *string    `gorm:"column:notes"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	IsDeleted          bool       `gorm:"column:is_deleted"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes, reason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		Reference:          m.Reference,
		ServiceID:          m.ServiceID,
		ProviderID:         m.ProviderID,
		CustomerID:         m.CustomerID,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Status:             domain.BookingStatus(m.Status),
		Notes:              notes,
		CancellationReason: reason,
		CancelledAt:        m.CancelledAt,
		IsDeleted:          m.IsDeleted,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes, reason *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		Reference:          b.Reference,
		ServiceID:          b.ServiceID,
		ProviderID:         b.ProviderID,
		CustomerID:         b.CustomerID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Status:             string(b.Status),
		Notes:              notes,
		CancellationReason: reason,
		CancelledAt:        b.CancelledAt,
		IsDeleted:          b.IsDeleted,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// OccupiedInterval is the [start, end) range of a non-cancelled booking.
type OccupiedInterval struct {
	BookingID int64     `gorm:"column:id"`
	Start     time.Time `gorm:"column:start_time"`
	End       time.Time `gorm:"column:end_time"`
}

// Create inserts the booking. The idx_no_double_booking partial unique index
// rejects a second non-cancelled booking for the same (provider, start_time);
// callers detect that with IsUniqueViolation.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// OccupiedIntervals returns the intervals of non-cancelled bookings for the
// provider that intersect [from, to). excludeID skips the caller's own booking
// when rescheduling; pass 0 otherwise.
func (r *BookingRepository) OccupiedIntervals(ctx context.Context, providerID int64, from, to time.Time, excludeID int64) ([]OccupiedInterval, error) {
	var out []OccupiedInterval
	q := r.db.WithContext(ctx).
		Table("bookings").
		Select("id, start_time, end_time").
		Where("provider_id = ?", providerID).
		Where("status <> ?", string(domain.BookingCancelled)).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC")
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a booking from one status to another with optimistic
// concurrency: the write only happens if the stored status still matches from.
// Returns false when the row was not in the expected status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// CancelWithReason performs the cancel status write together with the reason
// and timestamp, still guarded by the expected current status.
func (r *BookingRepository) CancelWithReason(ctx context.Context, id int64, from domain.BookingStatus, reason string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        at,
			"updated_at":          at,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Reschedule writes the new interval for a booking that is still pending or
// confirmed. The unique index applies here exactly as on insert.
func (r *BookingRepository) Reschedule(ctx context.Context, id int64, start, end time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status IN ?", id, []string{
			string(domain.BookingPending),
			string(domain.BookingConfirmed),
		}).
		Updates(map[string]interface{}{
			"start_time": start,
			"end_time":   end,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// SoftDelete tombstones the booking row. Nothing in this system hard-deletes
// bookings; history stays queryable.
func (r *BookingRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// ListDueForCompletion returns confirmed bookings whose end time has passed.
func (r *BookingRepository) ListDueForCompletion(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND end_time <= ?", string(domain.BookingConfirmed), now).
		Order("end_time ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// CustomerBookingRow is the joined projection behind "my bookings".
type CustomerBookingRow struct {
	ID           int64     `gorm:"column:id"`
	Reference    string    `gorm:"column:reference"`
	Status       string    `gorm:"column:status"`
	StartTime    time.Time `gorm:"column:start_time"`
	EndTime      time.Time `gorm:"column:end_time"`
	ServiceID    int64     `gorm:"column:service_id"`
	ServiceName  string    `gorm:"column:service_name"`
	ProviderID   int64     `gorm:"column:provider_id"`
	ProviderName string    `gorm:"column:provider_name"`
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]CustomerBookingRow, error) {
	var rows []CustomerBookingRow
	q := `
SELECT b.id, b.reference, b.status, b.start_time, b.end_time,
       b.service_id, s.name AS service_name,
       b.provider_id, p.name AS provider_name
FROM bookings b
JOIN services s ON s.id = b.service_id
JOIN providers p ON p.id = b.provider_id
WHERE b.customer_id = ? AND b.is_deleted = ?
ORDER BY b.start_time DESC
LIMIT ? OFFSET ?
`
	tx := r.db.WithContext(ctx).Raw(q, customerID, false, limit, offset).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("provider_id = ? AND is_deleted = ?", providerID, false).
		Order("start_time ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
