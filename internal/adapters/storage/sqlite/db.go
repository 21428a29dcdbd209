// Package sqlite es el remote store embebido: un solo archivo, sin servidor.
// Usa el driver puro Go de modernc, así el binario sigue sin cgo.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// tsLayout es de ancho fijo para que el orden de texto coincida con el
// orden temporal.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS pets (
	id            TEXT PRIMARY KEY,
	owner_id      TEXT NOT NULL,
	name          TEXT NOT NULL,
	species       TEXT NOT NULL,
	breed         TEXT,
	date_of_birth TEXT,
	notes         TEXT,
	photo_url     TEXT,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS pets_owner_created_idx ON pets (owner_id, created_at);

CREATE TABLE IF NOT EXISTS logs (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	pet_id        TEXT NOT NULL REFERENCES pets(id),
	type          TEXT NOT NULL,
	timestamp     TEXT NOT NULL,
	quantity      REAL,
	quantity_unit TEXT,
	duration_mins INTEGER,
	caregiver     TEXT,
	notes         TEXT
);
CREATE INDEX IF NOT EXISTS logs_pet_ts_idx ON logs (pet_id, timestamp);
`

// Open abre (o crea) la base en path y aplica el schema. path ":memory:"
// sirve para tests.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		path = "petlog.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	// foreign_keys viene apagado por default en sqlite; el pragma va en el
	// DSN para que aplique a cada conexión que abra database/sql.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializa escrituras igual; con una conexión ":memory:" es una sola base
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(tsLayout, s)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
