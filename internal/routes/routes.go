package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hmusa/medcatalog-backend/internal/handlers"
	"github.com/hmusa/medcatalog-backend/internal/middleware"
	"github.com/hmusa/medcatalog-backend/internal/models"
	"github.com/hmusa/medcatalog-backend/internal/services"
)

// Deps carries everything the route table needs; handlers are
// constructed in main and passed in.
type Deps struct {
	Auth          *handlers.AuthHandler
	Devices       *handlers.DeviceHandler
	Manufacturers *handlers.ManufacturerHandler
	Distributors  *handlers.DistributorHandler
	Tokens        *services.TokenService
}

// Setup registers the API. Reads are public; every mutation on catalog
// entities requires a valid token with the Admin role.
func Setup(r *chi.Mux, d Deps) {
	adminOnly := []func(http.Handler) http.Handler{
		middleware.RequireAuth(d.Tokens),
		middleware.RequireRoles(models.RoleAdmin),
	}

	r.Post("/api/auth/register", d.Auth.Register)
	r.Post("/api/auth/login", d.Auth.Login)

	r.Route("/api/devices", func(r chi.Router) {
		r.Get("/", d.Devices.List)
		r.Get("/{id}", d.Devices.Get)
		r.With(adminOnly...).Post("/", d.Devices.Create)
		r.With(adminOnly...).Put("/{id}", d.Devices.Update)
		r.With(adminOnly...).Delete("/{id}", d.Devices.Delete)
	})

	r.Route("/api/manufacturers", func(r chi.Router) {
		r.Get("/", d.Manufacturers.List)
		r.Get("/{id}", d.Manufacturers.Get)
		r.With(adminOnly...).Post("/", d.Manufacturers.Create)
		r.With(adminOnly...).Put("/{id}", d.Manufacturers.Update)
		r.With(adminOnly...).Delete("/{id}", d.Manufacturers.Delete)
	})

	r.Route("/api/distributors", func(r chi.Router) {
		r.Get("/", d.Distributors.List)
		r.Get("/{id}", d.Distributors.Get)
		r.With(adminOnly...).Post("/", d.Distributors.Create)
		r.With(adminOnly...).Put("/{id}", d.Distributors.Update)
		r.With(adminOnly...).Delete("/{id}", d.Distributors.Delete)
	})
}
