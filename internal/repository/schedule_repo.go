package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"servicebooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleRepository stores each provider's weekly schedule as a JSON
// document keyed by weekday ("monday".."sunday").
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type providerScheduleModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	ProviderID int64     `gorm:"column:provider_id;uniqueIndex"`
	Hours      string    `gorm:"column:hours;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (providerScheduleModel) TableName() string { return "provider_schedules" }

// GetByProviderID returns the provider's weekly schedule, falling back to the
// default hours when none has been configured yet.
func (r *ScheduleRepository) GetByProviderID(ctx context.Context, providerID int64) (domain.WeeklySchedule, error) {
	var m providerScheduleModel
	tx := r.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return domain.DefaultWeeklySchedule(), nil
		}
		return nil, tx.Error
	}

	var ws domain.WeeklySchedule
	if err := json.Unmarshal([]byte(m.Hours), &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Upsert replaces the provider's schedule. The schedule must already have
// passed domain validation; the repository does not re-check it.
func (r *ScheduleRepository) Upsert(ctx context.Context, providerID int64, ws domain.WeeklySchedule) error {
	raw, err := json.Marshal(ws)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	m := providerScheduleModel{
		ProviderID: providerID,
		Hours:      string(raw),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"hours": string(raw), "updated_at": now}),
		}).
		Create(&m).Error
}
