package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsS3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"pet-care-log/internal/ports/blob"
	"pet-care-log/internal/ports/store"
)

// fakeS3 cubre HEAD/PUT/GET en path-style, suficiente para el adapter.
type fakeS3 struct {
	mu    sync.Mutex
	state map[string]fakeObject
}

type fakeObject struct {
	body        []byte
	contentType string
}

func (m *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// /<bucket>/<key>
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch req.Method {
	case http.MethodHead:
		if o, ok := m.state[key]; ok {
			return response(http.StatusOK, nil, http.Header{
				"Content-Length": {strconv.Itoa(len(o.body))},
				"Content-Type":   {o.contentType},
			}), nil
		}
		return response(http.StatusNotFound, nil, http.Header{}), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		m.state[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type")}
		return response(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		if o, ok := m.state[key]; ok {
			return response(http.StatusOK, o.body, http.Header{
				"Content-Length": {strconv.Itoa(len(o.body))},
				"Content-Type":   {o.contentType},
			}), nil
		}
		return response(http.StatusNotFound, nil, http.Header{}), nil
	}
	return response(http.StatusNotImplemented, nil, http.Header{}), nil
}

func response(status int, body []byte, h http.Header) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: h}
}

// decodeChunked desarma un body aws-chunked de un solo chunk.
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(strings.SplitN(parts[0], ";", 2)[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n {
		return nil, false
	}
	if !strings.HasPrefix(parts[2], "0") {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newFakeStore(t *testing.T, cfg Config) (*Store, *fakeS3) {
	t.Helper()
	rt := &fakeS3{state: make(map[string]fakeObject)}
	cfg.Bucket = "photos-bkt"
	cfg.Region = "us-east-1"
	cfg.Endpoint = "https://mock.s3.local"
	cfg.PathStyle = true
	cfg.AccessKeyID = "AKIA"
	cfg.SecretAccessKey = "SECRET"

	s, err := New(context.Background(), cfg, func(o *awsS3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s, rt
}

func TestStore_UploadIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	s, rt := newFakeStore(t, Config{})

	if err := s.Upload(ctx, blob.PetPhotosBucket, "u1/a.jpg", strings.NewReader("hello"), "image/jpeg"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	o, ok := rt.state["pet-photos/u1/a.jpg"]
	if !ok || string(o.body) != "hello" || o.contentType != "image/jpeg" {
		t.Fatalf("unexpected stored object %+v (ok=%v)", o, ok)
	}

	err := s.Upload(ctx, blob.PetPhotosBucket, "u1/a.jpg", strings.NewReader("again"), "image/jpeg")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestStore_Open(t *testing.T) {
	ctx := context.Background()
	s, _ := newFakeStore(t, Config{})

	if err := s.Upload(ctx, blob.PetPhotosBucket, "u1/a.png", strings.NewReader("png"), "image/png"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	rc, ct, err := s.Open(ctx, blob.PetPhotosBucket, "u1/a.png")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "png" || ct != "image/png" {
		t.Fatalf("unexpected content %q %q", data, ct)
	}

	if _, _, err := s.Open(ctx, blob.PetPhotosBucket, "u1/missing.png"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PublicURL(t *testing.T) {
	s, _ := newFakeStore(t, Config{})
	if got := s.PublicURL(blob.PetPhotosBucket, "u1/my photo.jpg"); got != "https://mock.s3.local/photos-bkt/pet-photos/u1/my%20photo.jpg" {
		t.Fatalf("unexpected path-style url %q", got)
	}

	cdn, _ := newFakeStore(t, Config{PublicBaseURL: "https://cdn.example.com/"})
	if got := cdn.PublicURL(blob.PetPhotosBucket, "u1/a.jpg"); got != "https://cdn.example.com/pet-photos/u1/a.jpg" {
		t.Fatalf("unexpected cdn url %q", got)
	}

	def := &Store{bucket: "bkt", region: "sa-east-1"}
	if got := def.PublicURL(blob.PetPhotosBucket, "u1/a.jpg"); got != "https://bkt.s3.sa-east-1.amazonaws.com/pet-photos/u1/a.jpg" {
		t.Fatalf("unexpected aws url %q", got)
	}
}

func TestOpenFromEnv_NotConfigured(t *testing.T) {
	t.Setenv("BLOB_S3_BUCKET", "")
	s, ok, err := OpenFromEnv(context.Background())
	if err != nil || ok || s != nil {
		t.Fatalf("expected not configured, got %v %v %v", s, ok, err)
	}
}

func TestOpenFromEnv_PublicBaseURL(t *testing.T) {
	t.Setenv("BLOB_S3_BUCKET", "photos-bkt")
	t.Setenv("BLOB_S3_REGION", "us-east-1")
	t.Setenv("BLOB_S3_ENDPOINT", "https://mock.s3.local")
	t.Setenv("BLOB_S3_PATH_STYLE", "true")
	t.Setenv("BLOB_S3_ACCESS_KEY_ID", "AKIA")
	t.Setenv("BLOB_S3_SECRET_ACCESS_KEY", "SECRET")
	t.Setenv("BLOB_PUBLIC_BASE_URL", "https://cdn.example.com")

	s, ok, err := OpenFromEnv(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected configured store, got ok=%v err=%v", ok, err)
	}
	if got := s.PublicURL(blob.PetPhotosBucket, "u1/a.jpg"); got != "https://cdn.example.com/pet-photos/u1/a.jpg" {
		t.Fatalf("unexpected url %q", got)
	}

	t.Setenv("BLOB_PUBLIC_BASE_URL", "")
	s, _, err = OpenFromEnv(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := s.PublicURL(blob.PetPhotosBucket, "u1/a.jpg"); got != "https://mock.s3.local/photos-bkt/pet-photos/u1/a.jpg" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestIsNotFound(t *testing.T) {
	if isNotFound(errors.New("plain")) {
		t.Fatal("plain error is not a 404")
	}
	if isNotFound(nil) {
		t.Fatal("nil is not a 404")
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
