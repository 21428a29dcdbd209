package pets

import "context"

// OwnerOf expone el owner de una mascota.
// Lo usa carelogs para validar que el pet es del usuario sin importar pets.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}
