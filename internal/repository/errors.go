package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// NoDoubleBookingIndex is the partial unique index on (provider_id, start_time)
// over non-cancelled bookings. See database.Migrate.
const NoDoubleBookingIndex = "idx_no_double_booking"

// IsUniqueViolation reports whether err is a uniqueness-constraint failure,
// optionally restricted to a named constraint. Postgres surfaces pgconn
// error 23505; the sqlite driver used in tests only carries the message.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return false
		}
		return constraint == "" || pgErr.ConstraintName == constraint
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
