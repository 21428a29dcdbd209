package sqlite

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

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO logs (id, pet_id, type, timestamp, quantity, quantity_unit, duration_mins, caregiver, notes)
		VALUES (?,?,?,?,?,?,?,?,?)
	`,
		l.ID, l.PetID, string(l.Type), formatTS(l.Timestamp),
		l.Quantity, l.QuantityUnit, l.DurationMins, l.Caregiver, l.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return carelogs.Log{}, store.ErrConflict
		}
		return carelogs.Log{}, err
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return carelogs.Log{}, err
	}
	l.Seq = seq
	l.Timestamp = l.Timestamp.UTC()
	return l, nil
}

func (r *LogsRepo) GetByID(ctx context.Context, id string) (carelogs.Log, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+logColumns+` FROM logs WHERE id = ?`, strings.TrimSpace(id))
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+logColumns+`
		FROM logs
		WHERE pet_id = ?
		ORDER BY timestamp DESC, seq ASC
	`, strings.TrimSpace(petID))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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
	res, err := r.db.ExecContext(ctx, `DELETE FROM logs WHERE id = ?`, strings.TrimSpace(id))
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
	var (
		l    carelogs.Log
		typ  string
		ts   string
		qty  sql.NullFloat64
		mins sql.NullInt64
	)
	if err := s.Scan(&l.ID, &l.Seq, &l.PetID, &typ, &ts, &qty, &l.QuantityUnit, &mins, &l.Caregiver, &l.Notes); err != nil {
		return carelogs.Log{}, err
	}
	l.Type = carelogs.LogType(typ)

	t, err := parseTS(ts)
	if err != nil {
		return carelogs.Log{}, err
	}
	l.Timestamp = t

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
