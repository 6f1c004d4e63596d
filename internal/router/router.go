package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "vetly/docs"
	mem "vetly/internal/adapters/storage/memory"
	"vetly/internal/adapters/storage/objectstore"
	pg "vetly/internal/adapters/storage/postgres"
	"vetly/internal/domain/accounts"
	"vetly/internal/domain/animals"
	"vetly/internal/domain/owners"
	"vetly/internal/domain/ownership"
	"vetly/internal/domain/records"
	"vetly/internal/domain/users"
	"vetly/internal/middleware"
	"vetly/internal/platform/logger"
	"vetly/internal/platform/metrics"
	"vetly/internal/platform/web"
	"vetly/internal/ports/auth"
	"vetly/internal/report"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	defaultRateLimitMax    = 100
	defaultRateLimitWindow = 15 * time.Minute
	defaultMaxUploadBytes  = 5 << 20
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Verifier auth.AuthVerifier
	Issuer   auth.TokenIssuer
	Hasher   auth.PasswordHasher

	Images users.ImageStore
	// Uploads sirve /uploads/* cuando el storage es local; nil con S3.
	Uploads  http.Handler
	Renderer records.ReportRenderer

	Logger  logger.Logger
	Metrics *metrics.Metrics

	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration
	MaxUploadBytes  int64
	Location        *time.Location
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.New()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Renderer == nil {
		o.Renderer = report.New(o.Location, report.Options{Compress: true})
	}
	if o.RateLimitMax <= 0 {
		o.RateLimitMax = defaultRateLimitMax
	}
	if o.RateLimitWindow <= 0 {
		o.RateLimitWindow = defaultRateLimitWindow
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = defaultMaxUploadBytes
	}
}

type repos struct {
	users    users.Repository
	owners   owners.Repository
	animals  animals.Repository
	records  records.Repository
	resolver ownership.Resolver
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			users:    pg.NewUsersRepo(db),
			owners:   pg.NewOwnersRepo(db),
			animals:  pg.NewAnimalsRepo(db),
			records:  pg.NewRecordsRepo(db),
			resolver: pg.NewResolver(db),
		}
	}
	store := mem.NewStore()
	return repos{
		users:    store.Users(),
		owners:   store.Owners(),
		animals:  store.Animals(),
		records:  store.Records(),
		resolver: store,
	}
}

func NewRouter(opts Options) http.Handler {
	opts.defaults()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Recover(opts.Logger))
	r.Use(opts.Metrics.Instrument)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(opts.CORSOrigin))
	r.Use(middleware.NewRateLimiter(opts.RateLimitMax, opts.RateLimitWindow).Handler)

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(opts.DB))
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if opts.Uploads != nil {
		r.Handle(objectstore.PathPrefix+"*", http.StripPrefix(objectstore.PathPrefix, opts.Uploads))
	}

	rp := newRepos(opts.DB)
	authz := ownership.NewAuthorizer(rp.resolver)
	requireAuth := middleware.RequireAuth(opts.Verifier)

	// Services por módulo
	accountsSvc := accounts.NewService(rp.users, opts.Hasher, opts.Issuer)
	usersSvc := users.NewService(rp.users, opts.Images, opts.MaxUploadBytes)
	usersSvc.OnUpload(opts.Metrics.ObserveUpload)
	ownersSvc := owners.NewService(rp.owners, authz)
	animalsSvc := animals.NewService(rp.animals, authz, opts.Location)
	recordsSvc := records.NewService(rp.records, authz, opts.Location)

	// Rutas públicas
	accounts.RegisterRoutes(r, accountsSvc)
	users.RegisterRoutes(r, usersSvc, accountsSvc, requireAuth)

	// Rutas protegidas
	r.Group(func(pr chi.Router) {
		pr.Use(requireAuth)
		owners.RegisterRoutes(pr, ownersSvc)
		animals.RegisterRoutes(pr, animalsSvc)
		records.RegisterRoutes(pr, recordsSvc, opts.Renderer, opts.Metrics)
	})

	return r
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database,omitempty"`
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	web.JSON(w, http.StatusOK, healthResponse{Status: "OK", Timestamp: time.Now().UTC()})
}

// readyHandler verifica la base; sin DB (modo memoria) siempre está listo.
func readyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			web.JSON(w, http.StatusOK, healthResponse{Status: "OK", Timestamp: time.Now().UTC(), Database: "memory"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.FromContext(r.Context(), nil).Warn("http.ready.db_unavailable", map[string]any{"err": err})
			web.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "UNAVAILABLE", Timestamp: time.Now().UTC(), Database: "down"})
			return
		}
		web.JSON(w, http.StatusOK, healthResponse{Status: "OK", Timestamp: time.Now().UTC(), Database: "up"})
	}
}
