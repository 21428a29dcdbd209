package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strings"

	_ "pet-care-log/docs"

	blobmem "pet-care-log/internal/adapters/blob/memory"
	blobs3 "pet-care-log/internal/adapters/blob/s3"
	mem "pet-care-log/internal/adapters/storage/memory"
	pg "pet-care-log/internal/adapters/storage/postgres"
	lite "pet-care-log/internal/adapters/storage/sqlite"
	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/domain/photos"
	"pet-care-log/internal/middleware"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/ports/auth"
	"pet-care-log/internal/ports/blob"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa esa base. Si no, DB_DSN (postgres), después
	// SQLITE_PATH, y si no hay nada in-memory.
	DB     *sql.DB
	Driver string // "postgres" | "sqlite"; requerido si viene DB

	// Opcional: si no viene, BLOB_S3_BUCKET o in-memory.
	Blobs blob.Store

	// Base de las URLs públicas del store en memoria (PUBLIC_BASE_URL).
	PublicBaseURL string

	Logger logger.Logger
}

type repos struct {
	pets pets.Repository
	logs carelogs.Repository
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	rp := openRepos(opts, log)

	blobStore, blobReader := openBlobs(opts, log)

	// Services por módulo
	petsSvc := pets.NewService(rp.pets)
	logsSvc := carelogs.NewService(rp.logs)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	carelogs.RegisterRoutes(r, logsSvc, petsSvc)
	photos.RegisterRoutes(r, blobStore, blobReader)

	return r
}

func openRepos(opts Options, log logger.Logger) repos {
	db, driver := opts.DB, strings.ToLower(opts.Driver)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Error("postgres unavailable, falling back", map[string]any{"error": err})
			} else if err := pg.Migrate(context.Background(), opened); err != nil {
				log.Error("postgres migrate failed, falling back", map[string]any{"error": err})
				_ = opened.Close()
			} else {
				db, driver = opened, "postgres"
			}
		}
	}
	if db == nil {
		if path := os.Getenv("SQLITE_PATH"); path != "" {
			opened, err := lite.Open(path)
			if err != nil {
				log.Error("sqlite unavailable, falling back", map[string]any{"error": err, "path": path})
			} else {
				db, driver = opened, "sqlite"
			}
		}
	}

	switch {
	case db != nil && driver == "sqlite":
		log.Info("store backend", map[string]any{"driver": "sqlite"})
		return repos{pets: lite.NewPetsRepo(db), logs: lite.NewLogsRepo(db)}
	case db != nil:
		log.Info("store backend", map[string]any{"driver": "postgres"})
		return repos{pets: pg.NewPetsRepo(db), logs: pg.NewLogsRepo(db)}
	default:
		log.Info("store backend", map[string]any{"driver": "memory"})
		return repos{pets: mem.NewPetRepo(), logs: mem.NewLogRepo()}
	}
}

func openBlobs(opts Options, log logger.Logger) (blob.Store, blob.Reader) {
	if opts.Blobs != nil {
		rd, _ := opts.Blobs.(blob.Reader)
		return opts.Blobs, rd
	}

	s3Store, configured, err := blobs3.OpenFromEnv(context.Background())
	switch {
	case err != nil:
		log.Error("s3 unavailable, using memory blobs", map[string]any{"error": err})
	case configured:
		log.Info("blob backend", map[string]any{"driver": "s3"})
		return s3Store, s3Store
	}

	base := strings.TrimRight(opts.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	}
	m := blobmem.New(base + "/storage")
	log.Info("blob backend", map[string]any{"driver": "memory"})
	return m, m
}
