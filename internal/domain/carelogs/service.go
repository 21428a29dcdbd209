package carelogs

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
)

// CreateInput son los campos de un log nuevo. Los opcionales en nil o vacíos
// se guardan como null.
type CreateInput struct {
	Type         string
	Timestamp    time.Time
	Quantity     *float64
	QuantityUnit string
	DurationMins *int
	Caregiver    string
	Notes        string
}

// Normalize valida y arma el Log (sin ID ni Seq). Compartida entre API y cliente.
func (in CreateInput) Normalize(petID string) (Log, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Log{}, fmt.Errorf("%w: pet is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Type) == "" {
		return Log{}, fmt.Errorf("%w: type is required", ErrInvalidInput)
	}
	t, ok := ParseType(in.Type)
	if !ok {
		return Log{}, fmt.Errorf("%w: unknown log type %q", ErrInvalidInput, in.Type)
	}
	if in.Timestamp.IsZero() {
		return Log{}, fmt.Errorf("%w: timestamp is required", ErrInvalidInput)
	}

	return Log{
		PetID:        petID,
		Type:         t,
		Timestamp:    in.Timestamp.UTC(),
		Quantity:     in.Quantity,
		QuantityUnit: optional(in.QuantityUnit),
		DurationMins: in.DurationMins,
		Caregiver:    optional(in.Caregiver),
		Notes:        optional(in.Notes),
	}, nil
}

// Service es el caso de uso del lado del API (store).
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, petID string, in CreateInput) (Log, error) {
	l, err := in.Normalize(petID)
	if err != nil {
		return Log{}, err
	}
	l.ID = uuid.NewString()
	return s.repo.Create(ctx, l)
}

func (s *Service) GetByID(ctx context.Context, id string) (Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Log{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Log, error) {
	return s.repo.ListByPet(ctx, strings.TrimSpace(petID))
}

// Delete borra sin confirmación; la confirmación es cosa de la UI.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
