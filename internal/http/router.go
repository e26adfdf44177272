package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sisexp/api/internal/config"
	"github.com/sisexp/api/internal/expediente"
	httpmiddleware "github.com/sisexp/api/internal/http/middleware"
	"github.com/sisexp/api/internal/repo"
	"github.com/sisexp/api/internal/service"
)

type authService interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*service.Session, error)
}

type expedienteService interface {
	List(ctx context.Context, f expediente.Filter) (expediente.Page, error)
	Get(ctx context.Context, id int64) (expediente.Row, error)
	Create(ctx context.Context, in expediente.Input) (int64, error)
	Update(ctx context.Context, id int64, in expediente.Input) error
	Delete(ctx context.Context, id int64) error
}

type catalogoStore interface {
	ListAseguradoras(ctx context.Context) ([]repo.Aseguradora, error)
	ListJuzgados(ctx context.Context) ([]repo.Juzgado, error)
	ListCasos(ctx context.Context) ([]repo.Caso, error)
	ListUsuarios(ctx context.Context) ([]repo.UsuarioResumen, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	cfg         *config.Config
	db          pinger
	auth        authService
	expedientes expedienteService
	catalogos   catalogoStore
}

// NewRouter arma el router completo sobre el pool y el servicio de sesiones.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, authService *service.AuthService) http.Handler {
	queries := repo.New(pool)

	h := &Handler{
		cfg:         cfg,
		db:          queries,
		auth:        authService,
		expedientes: expediente.NewService(expediente.NewRepository(pool), queries),
		catalogos:   queries,
	}
	return h.routes()
}

func (h *Handler) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.Metrics)
	r.Use(httpmiddleware.CORS(h.cfg.AllowOrigins))
	r.Use(httpmiddleware.LoadSession(h.cfg.SessionCookie, h.auth))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "recurso no encontrado")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "método no permitido")
	})

	r.Get("/status", h.Status)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/", h.Index)
	r.Get("/login-ui", h.LoginUI)
	r.Get("/ui", h.UI)

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.RequireSession)

		private.Get("/aseguradoras", listHandler("aseguradoras", h.catalogos.ListAseguradoras))
		private.Get("/juzgados", listHandler("juzgados", h.catalogos.ListJuzgados))
		private.Get("/casos", listHandler("casos", h.catalogos.ListCasos))
		private.Get("/usuarios", listHandler("usuarios", h.catalogos.ListUsuarios))

		private.Get("/expedientes", h.ListExpedientes)
		private.Get("/expedientes/{id}", h.GetExpediente)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.RequireAdmin)

		admin.Post("/expedientes", h.CreateExpediente)
		admin.Put("/expedientes/{id}", h.UpdateExpediente)
		admin.Delete("/expedientes/{id}", h.DeleteExpediente)
	})

	return r
}
