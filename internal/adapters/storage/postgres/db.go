package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS pets (
	id            TEXT PRIMARY KEY,
	owner_id      TEXT NOT NULL,
	name          TEXT NOT NULL,
	species       TEXT NOT NULL,
	breed         TEXT,
	date_of_birth DATE,
	notes         TEXT,
	photo_url     TEXT,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS pets_owner_created_idx ON pets (owner_id, created_at DESC);

CREATE TABLE IF NOT EXISTS logs (
	id            TEXT PRIMARY KEY,
	seq           BIGSERIAL,
	pet_id        TEXT NOT NULL REFERENCES pets (id) ON DELETE CASCADE,
	type          TEXT NOT NULL,
	timestamp     TIMESTAMPTZ NOT NULL,
	quantity      DOUBLE PRECISION,
	quantity_unit TEXT,
	duration_mins INTEGER,
	caregiver     TEXT,
	notes         TEXT
);
CREATE INDEX IF NOT EXISTS logs_pet_ts_idx ON logs (pet_id, timestamp DESC, seq ASC);
`

// Migrate crea las tablas si no existen. Idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
