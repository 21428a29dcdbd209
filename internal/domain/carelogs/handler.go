package carelogs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/middleware"
	"pet-care-log/internal/ports/store"

	"github.com/go-chi/chi/v5"
)

// PetOwnerLookup evita importar el paquete pets.
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, petOwners PetOwnerLookup) {
	r.Route("/pets/{petID}/logs", func(lr chi.Router) {
		lr.Post("/", createLogHandler(svc, petOwners))
		lr.Get("/", listLogsHandler(svc, petOwners))
	})

	r.Delete("/logs/{logID}", deleteLogHandler(svc, petOwners))
}

// CreateLogRequest es el cuerpo para registrar un log de cuidado.
type CreateLogRequest struct {
	Type         LogType  `json:"type" enums:"feeding,walking,grooming,medical,medication,other"`
	Timestamp    string   `json:"timestamp"` // RFC3339
	Quantity     *float64 `json:"quantity"`
	QuantityUnit string   `json:"quantity_unit"`
	DurationMins *int     `json:"duration_mins"`
	Caregiver    string   `json:"caregiver"`
	Notes        string   `json:"notes"`
}

// LogResponse representa un log devuelto por la API.
type LogResponse struct {
	ID           string    `json:"id"`
	PetID        string    `json:"pet_id"`
	Type         LogType   `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	Quantity     *float64  `json:"quantity"`
	QuantityUnit *string   `json:"quantity_unit"`
	DurationMins *int      `json:"duration_mins"`
	Caregiver    *string   `json:"caregiver"`
	Notes        *string   `json:"notes"`
	Seq          int64     `json:"seq"`
}

// createLogHandler godoc
// @Summary Registrar log de cuidado
// @Description Crea un log para una mascota propia. timestamp en RFC3339.
// @Tags logs
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body CreateLogRequest true "Datos del log"
// @Success 201 {object} LogResponse
// @Failure 400 {string} string "invalid json / timestamp inválido / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/logs [post]
func createLogHandler(svc *Service, petOwners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		petID := chi.URLParam(r, "petID")
		if !ownsPet(w, r, petOwners, petID, userID) {
			return
		}

		var req CreateLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var ts time.Time
		if strings.TrimSpace(req.Timestamp) != "" {
			t, err := time.Parse(time.RFC3339, req.Timestamp)
			if err != nil {
				http.Error(w, "timestamp must be RFC3339", http.StatusBadRequest)
				return
			}
			ts = t
		}

		l, err := svc.Create(r.Context(), petID, CreateInput{
			Type:         string(req.Type),
			Timestamp:    ts,
			Quantity:     req.Quantity,
			QuantityUnit: req.QuantityUnit,
			DurationMins: req.DurationMins,
			Caregiver:    req.Caregiver,
			Notes:        req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(l))
	}
}

// listLogsHandler godoc
// @Summary Listar logs de una mascota
// @Description Logs de una mascota propia, timestamp desc (empates por orden de inserción). El filtrado por tipo/texto lo hace el cliente.
// @Tags logs
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} LogResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/logs [get]
func listLogsHandler(svc *Service, petOwners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		petID := chi.URLParam(r, "petID")
		if !ownsPet(w, r, petOwners, petID, userID) {
			return
		}

		items, err := svc.ListByPet(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]LogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, ToResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteLogHandler godoc
// @Summary Borrar un log
// @Description Borra un log de una mascota propia. Un id inexistente responde 404.
// @Tags logs
// @Param logID path string true "ID del log"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "log not found"
// @Failure 500 {string} string "internal error"
// @Router /logs/{logID} [delete]
func deleteLogHandler(svc *Service, petOwners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		logID := chi.URLParam(r, "logID")
		l, err := svc.GetByID(r.Context(), logID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, ErrInvalidInput) {
				http.Error(w, "log not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// logs de mascotas ajenas: 404, igual que si no existieran
		owner, err := petOwners.OwnerOf(r.Context(), l.PetID)
		if err != nil || owner != userID {
			http.Error(w, "log not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), logID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "log not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func ownsPet(w http.ResponseWriter, r *http.Request, petOwners PetOwnerLookup, petID, userID string) bool {
	owner, err := petOwners.OwnerOf(r.Context(), petID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "pet not found", http.StatusNotFound)
			return false
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}
	if owner != userID {
		http.Error(w, "pet not found", http.StatusNotFound)
		return false
	}
	return true
}

func ToResponse(l Log) LogResponse {
	return LogResponse{
		ID:           l.ID,
		PetID:        l.PetID,
		Type:         l.Type,
		Timestamp:    l.Timestamp,
		Quantity:     l.Quantity,
		QuantityUnit: l.QuantityUnit,
		DurationMins: l.DurationMins,
		Caregiver:    l.Caregiver,
		Notes:        l.Notes,
		Seq:          l.Seq,
	}
}

func FromResponse(in LogResponse) Log {
	return Log{
		ID:           in.ID,
		PetID:        in.PetID,
		Type:         in.Type,
		Timestamp:    in.Timestamp,
		Quantity:     in.Quantity,
		QuantityUnit: in.QuantityUnit,
		DurationMins: in.DurationMins,
		Caregiver:    in.Caregiver,
		Notes:        in.Notes,
		Seq:          in.Seq,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
