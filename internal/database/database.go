package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"servicebooking/internal/notification"
	"servicebooking/internal/repository"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema and the partial unique index that enforces
// at-most-one non-cancelled booking per (provider, start_time). The index is
// what makes concurrent create requests lose cleanly instead of overlapping.
func Migrate(db *gorm.DB) error {
	if err := repository.AutoMigrate(db); err != nil {
		return err
	}
	if err := notification.AutoMigrate(db); err != nil {
		return err
	}

	return db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_no_double_booking
ON bookings (provider_id, start_time)
WHERE status <> 'cancelled'
`).Error
}
