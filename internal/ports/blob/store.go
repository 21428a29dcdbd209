package blob

import (
	"context"
	"io"
)

// Bucket donde viven las fotos de mascotas.
const PetPhotosBucket = "pet-photos"

// Store sube binarios y resuelve su URL pública.
// Upload es create-only: si el path ya existe devuelve store.ErrConflict.
type Store interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error
	PublicURL(bucket, path string) string
}

// Reader lo implementan los stores que además sirven el contenido
// (memory, s3); lo usa el endpoint GET /storage.
type Reader interface {
	Open(ctx context.Context, bucket, path string) (io.ReadCloser, string, error)
}
