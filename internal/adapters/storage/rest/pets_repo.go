package rest

import (
	"context"
	"net/http"

	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/platform/httpclient"
)

type PetsRepo struct {
	c *httpclient.Client
}

func NewPetsRepo(c *httpclient.Client) *PetsRepo {
	return &PetsRepo{c: c}
}

// Create ignora p.ID y p.CreatedAt: los asigna el servidor.
func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	req := pets.CreatePetRequest{
		Name:    p.Name,
		Species: p.Species,
	}
	if p.Breed != nil {
		req.Breed = *p.Breed
	}
	if p.DateOfBirth != nil {
		req.DateOfBirth = p.DateOfBirth.Format(pets.DateLayout)
	}
	if p.Notes != nil {
		req.Notes = *p.Notes
	}
	if p.PhotoURL != nil {
		req.PhotoURL = *p.PhotoURL
	}

	var out pets.PetResponse
	if err := r.c.DoJSON(ctx, http.MethodPost, "/pets", nil, req, &out); err != nil {
		return pets.Pet{}, mapErr(err)
	}
	return pets.FromResponse(out), nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var out pets.PetResponse
	if err := r.c.DoJSON(ctx, http.MethodGet, "/pets/"+escape(id), nil, nil, &out); err != nil {
		return pets.Pet{}, mapErr(err)
	}
	return pets.FromResponse(out), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	var raw []pets.PetResponse
	if err := r.c.DoJSON(ctx, http.MethodGet, "/pets", nil, nil, &raw); err != nil {
		return nil, mapErr(err)
	}
	out := make([]pets.Pet, 0, len(raw))
	for _, p := range raw {
		out = append(out, pets.FromResponse(p))
	}
	return out, nil
}
