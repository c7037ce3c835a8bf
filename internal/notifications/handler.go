// AngelaMos | 2026
// handler.go

package notifications

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	device func(http.Handler) http.Handler,
) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(device)
		r.Use(middleware.Gate)

		r.Get("/", h.List)
		r.Post("/read", h.MarkAllRead)
		r.Post("/{id}/read", h.MarkRead)
		r.Delete("/", h.Clear)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	core.OK(w, h.service.List(ctx, middleware.GetStore(ctx)))
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.MarkRead(ctx, middleware.GetStore(ctx), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			core.NotFound(w, "notification")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	core.OK(w, h.service.MarkAllRead(ctx, middleware.GetStore(ctx)))
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.service.Clear(ctx, middleware.GetStore(ctx))
	core.NoContent(w)
}
