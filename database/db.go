// Package database is the Postgres record store: inventory for the four
// travel categories plus bookings and favorites.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tripbazaar/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open connects, waits for the database to come up, runs migrations and
// returns the store.
func Open(cfg config.PostgresConfig, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	// The hosted database may take a moment to accept connections.
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Info("waiting for database", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database after retries: %w", err)
	}

	store := &Store{db: db, log: log}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	log.Info("database connected and migrated")
	return store, nil
}

// NewWithDB wraps an existing handle; used by tests.
func NewWithDB(db *sql.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS flights (
			id                BIGSERIAL PRIMARY KEY,
			airline           TEXT NOT NULL,
			flight_number     TEXT NOT NULL,
			from_city         TEXT NOT NULL,
			to_city           TEXT NOT NULL,
			departure_time    TEXT NOT NULL,
			arrival_time      TEXT NOT NULL,
			duration          TEXT NOT NULL,
			price             INTEGER NOT NULL,
			available_seats   INTEGER NOT NULL,
			class_type        TEXT NOT NULL,
			baggage_allowance TEXT DEFAULT '',
			meal_included     BOOLEAN DEFAULT FALSE,
			rating            NUMERIC(3,1) DEFAULT 0,
			stops             INTEGER DEFAULT 0,
			created_at        TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS hotels (
			id              BIGSERIAL PRIMARY KEY,
			name            TEXT NOT NULL,
			location        TEXT NOT NULL,
			city            TEXT NOT NULL,
			rating          NUMERIC(3,1) NOT NULL,
			price_per_night INTEGER NOT NULL,
			amenities       JSONB DEFAULT '[]',
			room_type       TEXT NOT NULL,
			available_rooms INTEGER NOT NULL,
			check_in        TEXT NOT NULL,
			check_out       TEXT NOT NULL,
			created_at      TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS buses (
			id              BIGSERIAL PRIMARY KEY,
			operator        TEXT NOT NULL,
			bus_number      TEXT NOT NULL,
			from_city       TEXT NOT NULL,
			to_city         TEXT NOT NULL,
			departure_time  TEXT NOT NULL,
			arrival_time    TEXT NOT NULL,
			duration        TEXT NOT NULL,
			price           INTEGER NOT NULL,
			available_seats INTEGER NOT NULL,
			bus_type        TEXT NOT NULL,
			amenities       JSONB DEFAULT '[]',
			rating          NUMERIC(3,1) DEFAULT 0,
			created_at      TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id               BIGSERIAL PRIMARY KEY,
			title            TEXT NOT NULL,
			location         TEXT NOT NULL,
			city             TEXT NOT NULL,
			description      TEXT NOT NULL,
			category         TEXT NOT NULL,
			duration         TEXT NOT NULL,
			price            INTEGER NOT NULL,
			rating           NUMERIC(3,1) NOT NULL,
			max_participants INTEGER NOT NULL,
			available_spots  INTEGER NOT NULL,
			includes         JSONB DEFAULT '[]',
			created_at       TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id              BIGSERIAL PRIMARY KEY,
			user_id         TEXT NOT NULL,
			booking_type    TEXT NOT NULL,
			item_id         BIGINT NOT NULL,
			booking_details JSONB,
			status          TEXT NOT NULL DEFAULT 'pending',
			total_amount    INTEGER NOT NULL,
			payment_status  TEXT NOT NULL DEFAULT 'pending',
			transaction_id  TEXT DEFAULT '',
			booking_date    TEXT NOT NULL,
			travel_date     TEXT NOT NULL,
			passengers      JSONB,
			created_at      TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS favorites (
			id         BIGSERIAL PRIMARY KEY,
			user_id    TEXT NOT NULL,
			item_type  TEXT NOT NULL,
			item_id    BIGINT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (user_id, item_type, item_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_flights_cities ON flights(from_city, to_city)`,
		`CREATE INDEX IF NOT EXISTS idx_hotels_city ON hotels(city)`,
		`CREATE INDEX IF NOT EXISTS idx_buses_cities ON buses(from_city, to_city)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_city ON activities(city)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nsql: %s", err, m)
		}
	}
	return nil
}
