// Package s3 guarda las fotos en un bucket S3 (o compatible, p.ej. MinIO).
// Los buckets lógicos (pet-photos) son prefijos de key dentro del bucket real.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pet-care-log/internal/ports/store"
)

// maxObjectBytes limita el tamaño de una foto.
const maxObjectBytes = 10 << 20

type Store struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string
	pathStyle bool
	publicURL string
}

type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // opcional (MinIO)
	PathStyle bool

	// Credenciales explícitas; vacías => cadena default de AWS.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// PublicBaseURL, si está, reemplaza al endpoint en las URLs públicas (CDN).
	PublicBaseURL string
}

// Variables de entorno:
//   BLOB_S3_BUCKET (requerida), BLOB_S3_REGION (default us-east-1),
//   BLOB_S3_ENDPOINT, BLOB_S3_PATH_STYLE=true|false, BLOB_PUBLIC_BASE_URL
//   BLOB_S3_ACCESS_KEY_ID / BLOB_S3_SECRET_ACCESS_KEY (si no, cadena default de AWS)

func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)

	return &Store{
		client:    s3.NewFromConfig(awsCfg, opts...),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle: cfg.PathStyle,
		publicURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// OpenFromEnv arma el store desde el entorno. ok=false si no hay bucket
// configurado (el caller cae al store en memoria).
func OpenFromEnv(ctx context.Context) (*Store, bool, error) {
	bucket := strings.TrimSpace(os.Getenv("BLOB_S3_BUCKET"))
	if bucket == "" {
		return nil, false, nil
	}
	s, err := New(ctx, Config{
		Bucket:        bucket,
		Region:        os.Getenv("BLOB_S3_REGION"),
		Endpoint:      os.Getenv("BLOB_S3_ENDPOINT"),
		PathStyle:     strings.EqualFold(os.Getenv("BLOB_S3_PATH_STYLE"), "true"),
		PublicBaseURL: os.Getenv("BLOB_PUBLIC_BASE_URL"),

		AccessKeyID:     os.Getenv("BLOB_S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("BLOB_S3_SECRET_ACCESS_KEY"),
	})
	if err != nil {
		return nil, true, err
	}
	return s, true, nil
}

func objectKey(bucket, path string) string {
	return strings.Trim(bucket, "/") + "/" + strings.Trim(path, "/")
}

// Upload es create-only: HeadObject primero, igual que un insert con PK.
func (s *Store) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error {
	key := objectKey(bucket, path)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	switch {
	case err == nil:
		return store.ErrConflict
	case !isNotFound(err):
		return err
	}

	// body en memoria: el SDK necesita un reader seekable para firmar
	body, err := io.ReadAll(io.LimitReader(r, maxObjectBytes+1))
	if err != nil {
		return err
	}
	if len(body) > maxObjectBytes {
		return fmt.Errorf("object too large (max %d bytes)", maxObjectBytes)
	}

	in := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err = s.client.PutObject(ctx, in)
	return err
}

func (s *Store) PublicURL(bucket, path string) string {
	key := escapeKey(objectKey(bucket, path))
	switch {
	case s.publicURL != "":
		return s.publicURL + "/" + key
	case s.endpoint != "" && s.pathStyle:
		return s.endpoint + "/" + s.bucket + "/" + key
	case s.endpoint != "":
		u, err := url.Parse(s.endpoint)
		if err != nil {
			return s.endpoint + "/" + s.bucket + "/" + key
		}
		return u.Scheme + "://" + s.bucket + "." + u.Host + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

func (s *Store) Open(ctx context.Context, bucket, path string) (io.ReadCloser, string, error) {
	key := objectKey(bucket, path)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		if isNotFound(err) {
			return nil, "", store.ErrNotFound
		}
		return nil, "", err
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

// isNotFound: HeadObject y GetObject devuelven 404 envuelto en la
// ResponseError del SDK.
func isNotFound(err error) bool {
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

func escapeKey(key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
