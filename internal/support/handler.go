// AngelaMos | 2026
// handler.go

package support

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/simulate"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	device func(http.Handler) http.Handler,
) {
	r.Route("/support", func(r chi.Router) {
		r.Use(device)
		r.Use(middleware.Gate)

		r.Get("/topics", h.Topics)
		r.Get("/topics/{id}", h.Topic)
		r.Post("/contact", h.Contact)
		r.Get("/chat", h.Chat)
		r.Post("/chat", h.Send)
		r.Delete("/chat", h.ClearChat)
	})
}

func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Topics())
}

func (h *Handler) Topic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.service.Topic(chi.URLParam(r, "id"))
	if err != nil {
		core.NotFound(w, "help topic")
		return
	}
	core.OK(w, topic)
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	result, err := h.service.Contact(ctx, middleware.GetUser(ctx), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.Accepted(w, result)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	core.OK(w, h.service.Chat(ctx, middleware.GetStore(ctx)))
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	view, err := h.service.Send(ctx, middleware.GetStore(ctx), req.Text)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, view)
}

func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.service.ClearChat(ctx, middleware.GetStore(ctx))
	core.NoContent(w)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		core.BadRequest(w, "Please enter a message")
	case errors.Is(err, simulate.ErrCancelled):
		h.logger.InfoContext(r.Context(), "request abandoned", "error", err)
	default:
		core.InternalServerError(w, err)
	}
}
