package rest

import (
	"context"
	"io"
	"net/http"
	"strings"

	"pet-care-log/internal/platform/httpclient"
)

// BlobStore sube al endpoint /storage de la API.
type BlobStore struct {
	c *httpclient.Client
}

func NewBlobStore(c *httpclient.Client) *BlobStore {
	return &BlobStore{c: c}
}

func (b *BlobStore) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.c.DoRaw(ctx, http.MethodPut, storagePath(bucket, path), contentType, r)
	return mapErr(err)
}

func (b *BlobStore) PublicURL(bucket, path string) string {
	u, err := b.c.ResolveURL(storagePath(bucket, path))
	if err != nil {
		return storagePath(bucket, path)
	}
	return u
}

func storagePath(bucket, path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		segs[i] = escape(s)
	}
	return "/storage/" + escape(bucket) + "/" + strings.Join(segs, "/")
}
