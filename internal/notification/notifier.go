package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier implements the booking module's NotificationSender: it stores an
// in-app notification row and pushes it over the websocket hub when the
// recipient is connected.
type Notifier struct {
	db  *gorm.DB
	hub *Hub
	log *zap.Logger
}

func NewNotifier(db *gorm.DB, hub *Hub, log *zap.Logger) *Notifier {
	return &Notifier{
		db:  db,
		hub: hub,
		log: log.With(zap.String("service", "notification")),
	}
}

func (n *Notifier) NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID int64, serviceName string, start time.Time) error {
	return n.deliver(ctx, Notification{
		UserID:    ownerUserID,
		Type:      TypeBookingCreated,
		Title:     "New booking request",
		Body:      fmt.Sprintf("%s on %s", serviceName, start.Format("Mon 2 Jan 15:04")),
		BookingID: &bookingID,
	})
}

func (n *Notifier) NotifyBookingConfirmed(ctx context.Context, customerID, bookingID int64) error {
	return n.deliver(ctx, Notification{
		UserID:    customerID,
		Type:      TypeBookingConfirmed,
		Title:     "Booking confirmed",
		Body:      "Your booking has been confirmed by the provider",
		BookingID: &bookingID,
	})
}

func (n *Notifier) NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error {
	body := "The booking has been cancelled"
	if reason != "" {
		body = "The booking has been cancelled: " + reason
	}
	return n.deliver(ctx, Notification{
		UserID:    userID,
		Type:      TypeBookingCancelled,
		Title:     "Booking cancelled",
		Body:      body,
		BookingID: &bookingID,
	})
}

func (n *Notifier) deliver(ctx context.Context, row Notification) error {
	if err := n.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	if !n.hub.SendToUser(row.UserID, row) {
		n.log.Debug("recipient offline, notification stored only",
			zap.Int64("user_id", row.UserID), zap.String("type", row.Type))
	}
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (n *Notifier) ListForUser(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	var rows []Notification
	err := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (n *Notifier) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return n.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", time.Now().UTC()).Error
}
