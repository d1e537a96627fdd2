package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mytheresa/catalog-admin/app/catalog"
	m "github.com/mytheresa/catalog-admin/app/middleware"
)

func SetupRouter(catalogHandler *catalog.CatalogHandler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, catalog.ListPath, http.StatusFound)
	})
	r.Mount("/products", catalogHandler.Routes())

	return r
}
