package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicer/internal/http/backup"
	"github.com/MrJamesThe3rd/invoicer/internal/http/client"
	"github.com/MrJamesThe3rd/invoicer/internal/http/importcsv"
	"github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
)

func New(
	allowedOrigins []string,
	clientsV1 *client.Handler,
	invoicesV1 *invoice.Handler,
	importV1 *importcsv.Handler,
	backupV1 *backup.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			clientsV1.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/backup", backupV1.Routes)
	})

	return router
}
