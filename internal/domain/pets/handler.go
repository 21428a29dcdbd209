package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/middleware"
	"pet-care-log/internal/ports/store"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
	})
}

// CreatePetRequest es el cuerpo para registrar una mascota.
// photo_url llega ya resuelta: el cliente sube la foto antes de insertar.
type CreatePetRequest struct {
	Name        string  `json:"name"`
	Species     Species `json:"species" enums:"dog,cat,bird,rabbit,other"`
	Breed       string  `json:"breed"`
	DateOfBirth string  `json:"date_of_birth"` // YYYY-MM-DD opcional
	Notes       string  `json:"notes"`
	PhotoURL    string  `json:"photo_url"`
}

// PetResponse es la representación JSON de una mascota (también la usa el
// adapter REST para decodificar).
type PetResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Species     Species   `json:"species"`
	Breed       *string   `json:"breed"`
	DateOfBirth *string   `json:"date_of_birth"`
	Notes       *string   `json:"notes"`
	PhotoURL    *string   `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Crea una mascota para el usuario autenticado. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body CreatePetRequest true "Datos de la mascota; date_of_birth en formato YYYY-MM-DD"
// @Success 201 {object} PetResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var dob *time.Time
		if strings.TrimSpace(req.DateOfBirth) != "" {
			t, err := time.Parse(DateLayout, strings.TrimSpace(req.DateOfBirth))
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dob = &t
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Species:     string(req.Species),
			Breed:       req.Breed,
			DateOfBirth: dob,
			Notes:       req.Notes,
			PhotoURL:    req.PhotoURL,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Description Mascotas del usuario autenticado, la más nueva primero.
// @Tags pets
// @Produce json
// @Success 200 {array} PetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]PetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, ToResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Ver mascota
// @Description Perfil de una mascota propia. Las mascotas de otros owners responden 404.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		// no revelamos mascotas ajenas
		if p.OwnerID != claims.UserID {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, ToResponse(p))
	}
}

func ToResponse(p Pet) PetResponse {
	out := PetResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Notes:     p.Notes,
		PhotoURL:  p.PhotoURL,
		CreatedAt: p.CreatedAt,
	}
	if p.DateOfBirth != nil {
		s := p.DateOfBirth.Format(DateLayout)
		out.DateOfBirth = &s
	}
	return out
}

// FromResponse es la vuelta de ToResponse (adapter REST).
func FromResponse(in PetResponse) Pet {
	p := Pet{
		ID:        in.ID,
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Species:   in.Species,
		Breed:     in.Breed,
		Notes:     in.Notes,
		PhotoURL:  in.PhotoURL,
		CreatedAt: in.CreatedAt,
	}
	if in.DateOfBirth != nil {
		if t, err := time.Parse(DateLayout, *in.DateOfBirth); err == nil {
			p.DateOfBirth = &t
		}
	}
	return p
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos (pets/carelogs)
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
