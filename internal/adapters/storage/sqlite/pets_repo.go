package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/ports/store"

	"github.com/google/uuid"
)

type PetsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db, now: time.Now}
}

const petColumns = `id, owner_id, name, species, breed, date_of_birth, notes, photo_url, created_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now().UTC()
	}

	var dob *string
	if p.DateOfBirth != nil {
		s := p.DateOfBirth.Format(pets.DateLayout)
		dob = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?)
	`,
		p.ID, p.OwnerID, p.Name, string(p.Species),
		p.Breed, dob, p.Notes, p.PhotoURL,
		formatTS(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return pets.Pet{}, store.ErrConflict
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, strings.TrimSpace(id))
	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, store.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, strings.TrimSpace(ownerID))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var (
		p       pets.Pet
		species string
		dob     sql.NullString
		created string
	)
	if err := s.Scan(&p.ID, &p.OwnerID, &p.Name, &species, &p.Breed, &dob, &p.Notes, &p.PhotoURL, &created); err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)

	if dob.Valid && dob.String != "" {
		t, err := time.Parse(pets.DateLayout, dob.String)
		if err != nil {
			return pets.Pet{}, err
		}
		p.DateOfBirth = &t
	}

	t, err := parseTS(created)
	if err != nil {
		return pets.Pet{}, err
	}
	p.CreatedAt = t
	return p, nil
}
