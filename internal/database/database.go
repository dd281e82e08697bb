package database

import (
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

// Connect opens a gorm handle for dsn. Postgres URLs get the pgx-backed
// driver; anything else is treated as a SQLite path (":memory:" included),
// which tests and local development rely on.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate applies the schema for every engine entity. On Postgres it also
// installs the partial unique index that backstops the application-level
// overlap check: two active reservations can never commit for the same
// resource and start instant even if a bug lets the row-lock path through.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Club{},
		&domain.ClubHours{},
		&domain.Resource{},
		&domain.Holiday{},
		&domain.PricingRule{},
		&domain.Reservation{},
		&domain.AvailabilityBlock{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		return db.Exec(`
CREATE EXTENSION IF NOT EXISTS btree_gist;
ALTER TABLE reservations DROP CONSTRAINT IF EXISTS idx_no_double_booking;
ALTER TABLE reservations
  ADD CONSTRAINT idx_no_double_booking
  EXCLUDE USING gist (
    resource_id WITH =,
    tstzrange(start_time, end_time) WITH &&
  )
  WHERE (status IN ('reserved', 'pending_payment', 'paid'))
`).Error
	}
	return nil
}
