package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wb_slots/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handler(s.getV1Status))
		r.Get("/warehouses", handler(s.getV1Warehouses))
		r.Post("/check", handler(s.postV1Check))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
