package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"clinic-booking-api/internal/auth"
	"clinic-booking-api/internal/config"
	"clinic-booking-api/internal/middleware"
	"clinic-booking-api/internal/model"
	"clinic-booking-api/internal/scheduling"
	"clinic-booking-api/internal/store"
)

type Handler struct {
	engine   *scheduling.Engine
	store    *store.Store
	denylist *auth.Denylist
	cfg      *config.Config
	log      *zap.Logger
	validate *validator.Validate
}

func New(engine *scheduling.Engine, st *store.Store, denylist *auth.Denylist, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		engine:   engine,
		store:    st,
		denylist: denylist,
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
	}
}

// Routes assembles the full router: global middleware, the open auth
// endpoints, and the authenticated API surface.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(h.cfg.RequestsPerSecond, time.Second))
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		IsDevelopment:      !h.cfg.IsProduction(),
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	authed := middleware.Auth(h.cfg.JWTSecret, h.denylist, h.log)
	credentialLimiter := middleware.NewRateLimiter(h.cfg.AuthRatePerSecond, h.cfg.AuthRateBurst)

	r.Route("/auth", func(r chi.Router) {
		r.With(credentialLimiter.Limit).Post("/register", h.Register)
		r.With(credentialLimiter.Limit).Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.With(authed).Post("/logout", h.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(authed)

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.ListAppointments)
			r.Post("/", h.CreateAppointment)
			r.Get("/{id}", h.GetAppointment)
			r.Patch("/{id}/cancel", h.CancelAppointment)
		})

		r.Route("/records", func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleDoctor, model.RoleAdmin))
			r.Get("/", h.ListRecords)
			r.Get("/search", h.SearchRecords)
			r.Post("/", h.CreateRecord)
			r.Get("/{id}", h.GetRecord)
		})

		r.Get("/files/{filename}", h.DownloadFile)
	})

	return r
}
