package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/ports/store"

	"github.com/google/uuid"
)

type LogsRepo struct {
	db *sql.DB
}

func NewLogsRepo(db *sql.DB) *LogsRepo {
	return &LogsRepo{db: db}
}

const logColumns = `id, seq, pet_id, type, timestamp, quantity, quantity_unit, duration_mins, caregiver, notes`

func (r *LogsRepo) Create(ctx context.Context, l carelogs.Log) (carelogs.Log, error) {
	if strings.TrimSpace(l.ID) == "" {
		l.ID = uuid.NewString()
	}

	// seq lo asigna la secuencia; sirve de desempate de timestamps iguales
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO logs (id, pet_id, type, timestamp, quantity, quantity_unit, duration_mins, caregiver, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING seq
	`,
		l.ID,
		l.PetID,
		string(l.Type),
		l.Timestamp,
		l.Quantity,
		l.QuantityUnit,
		l.DurationMins,
		l.Caregiver,
		l.Notes,
	).Scan(&l.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return carelogs.Log{}, store.ErrConflict
		}
		return carelogs.Log{}, err
	}
	return l, nil
}

func (r *LogsRepo) GetByID(ctx context.Context, id string) (carelogs.Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return carelogs.Log{}, store.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+logColumns+` FROM logs WHERE id = $1`, id)
	l, err := scanLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return carelogs.Log{}, store.ErrNotFound
		}
		return carelogs.Log{}, err
	}
	return l, nil
}

func (r *LogsRepo) ListByPet(ctx context.Context, petID string) ([]carelogs.Log, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []carelogs.Log{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+logColumns+`
		FROM logs
		WHERE pet_id = $1
		ORDER BY timestamp DESC, seq ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]carelogs.Log, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM logs WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanLog(s rowScanner) (carelogs.Log, error) {
	var l carelogs.Log
	var typ string
	var qty sql.NullFloat64
	var mins sql.NullInt64
	if err := s.Scan(
		&l.ID,
		&l.Seq,
		&l.PetID,
		&typ,
		&l.Timestamp,
		&qty,
		&l.QuantityUnit,
		&mins,
		&l.Caregiver,
		&l.Notes,
	); err != nil {
		return carelogs.Log{}, err
	}
	l.Type = carelogs.LogType(typ)
	l.Timestamp = l.Timestamp.UTC()
	if qty.Valid {
		v := qty.Float64
		l.Quantity = &v
	}
	if mins.Valid {
		v := int(mins.Int64)
		l.DurationMins = &v
	}
	return l, nil
}
