package http

import (
	"net/http"

	"calldex/internal/auth"
	"calldex/internal/config"
	"calldex/internal/directory"
	"calldex/internal/http/handler"
	mw "calldex/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"welcome to calldex"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	svc := directory.NewService(db)

	ah := &handler.AuthHandler{Svc: svc, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)
	r.Post("/auth/refresh", ah.Refresh)

	me := &handler.MeHandler{Svc: svc}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	ch := &handler.ContactsHandler{Svc: svc}
	r.Route("/contacts", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/search_by_number", ch.SearchByNumber)
		r.Get("/search_by_name", ch.SearchByName)
		r.Post("/report", ch.Report)
		r.Get("/details", ch.Details)

		r.Post("/phonebook", ch.SaveAlias)
		r.Get("/phonebook", ch.PhoneBook)
	})

	return r
}
