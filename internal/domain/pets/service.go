package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownPet   = errors.New("unknown pet")
)

// CreateInput es lo mínimo para registrar una mascota.
// Los opcionales vacíos se guardan como null.
type CreateInput struct {
	Name        string
	Species     string
	Breed       string
	DateOfBirth *time.Time
	Notes       string
	PhotoURL    string
}

// Normalize valida y arma el Pet (sin ID ni CreatedAt).
// La usan tanto el API (Service.Create) como el cliente (mutations) para que
// las reglas sean las mismas de los dos lados.
func (in CreateInput) Normalize(ownerID string) (Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Pet{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Species) == "" {
		return Pet{}, fmt.Errorf("%w: species is required", ErrInvalidInput)
	}
	sp, ok := ParseSpecies(in.Species)
	if !ok {
		return Pet{}, fmt.Errorf("%w: unknown species %q", ErrInvalidInput, in.Species)
	}

	return Pet{
		OwnerID:     ownerID,
		Name:        name,
		Species:     sp,
		Breed:       optional(in.Breed),
		DateOfBirth: in.DateOfBirth,
		Notes:       optional(in.Notes),
		PhotoURL:    optional(in.PhotoURL),
	}, nil
}

// Service es el caso de uso del lado del API (store).
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	p, err := in.Normalize(ownerID)
	if err != nil {
		return Pet{}, err
	}

	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()

	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerID))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
