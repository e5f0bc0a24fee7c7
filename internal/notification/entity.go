package notification

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
)

// Notification is an in-app notification row; delivery over the websocket hub
// is an optimization on top of it, not the source of truth.
type Notification struct {
	ID        int64        `gorm:"primaryKey" json:"id"`
	UserID    int64        `gorm:"index" json:"user_id"`
	Type      string       `gorm:"index" json:"type"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	BookingID *int64       `json:"booking_id,omitempty"`
	ReadAt    sql.NullTime `json:"read_at"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) IsRead() bool { return n.ReadAt.Valid }

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Notification{})
}
