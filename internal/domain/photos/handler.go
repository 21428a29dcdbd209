// Package photos expone el object storage de la API: el cliente sube la foto
// de la mascota acá y guarda la URL pública en el perfil.
package photos

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"pet-care-log/internal/middleware"
	"pet-care-log/internal/ports/blob"
	"pet-care-log/internal/ports/store"

	"github.com/go-chi/chi/v5"
)

// MaxUploadBytes limita el body de un upload.
const MaxUploadBytes = 10 << 20

// RegisterRoutes monta PUT/GET /storage/{bucket}/*. reader puede ser nil si
// el store no sirve contenido (las URLs públicas apuntan a otro lado).
func RegisterRoutes(r chi.Router, store blob.Store, reader blob.Reader) {
	r.Route("/storage/{bucket}", func(sr chi.Router) {
		sr.Put("/*", uploadHandler(store))
		if reader != nil {
			sr.Get("/*", downloadHandler(reader))
		}
	})
}

type uploadResponse struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// uploadHandler godoc
// @Summary Subir foto
// @Description Sube un binario. Create-only: un path existente responde 409. El primer segmento del path debe ser el id del usuario.
// @Tags storage
// @Accept octet-stream
// @Produce json
// @Param bucket path string true "Bucket (pet-photos)"
// @Param path path string true "owner_id/archivo.ext"
// @Success 201 {object} uploadResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "bucket not found"
// @Failure 409 {string} string "already exists"
// @Router /storage/{bucket}/{path} [put]
func uploadHandler(s blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bucket, path, ok := target(w, r)
		if !ok {
			return
		}
		// cada usuario escribe sólo bajo su prefijo
		if owner, _, _ := strings.Cut(path, "/"); owner != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		body := http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		if err := s.Upload(r.Context(), bucket, path, body, r.Header.Get("Content-Type")); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.Is(err, store.ErrConflict):
				http.Error(w, "already exists", http.StatusConflict)
			case errors.As(err, &tooLarge):
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, uploadResponse{
			Bucket: bucket,
			Path:   path,
			URL:    s.PublicURL(bucket, path),
		})
	}
}

// downloadHandler godoc
// @Summary Descargar foto
// @Description Las fotos son públicas: no requiere autenticación.
// @Tags storage
// @Produce octet-stream
// @Param bucket path string true "Bucket (pet-photos)"
// @Param path path string true "owner_id/archivo.ext"
// @Success 200 {file} binary
// @Failure 404 {string} string "not found"
// @Router /storage/{bucket}/{path} [get]
func downloadHandler(rd blob.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket, path, ok := target(w, r)
		if !ok {
			return
		}

		rc, contentType, err := rd.Open(r.Context(), bucket, path)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	}
}

func target(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	bucket := chi.URLParam(r, "bucket")
	if bucket != blob.PetPhotosBucket {
		http.Error(w, "bucket not found", http.StatusNotFound)
		return "", "", false
	}
	path := strings.Trim(chi.URLParam(r, "*"), "/")
	if path == "" || strings.Contains(path, "..") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return "", "", false
	}
	return bucket, path, true
}

// writeJSON está duplicado en cada módulo con handlers.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
