// AngelaMos | 2026
// handler.go

package demo

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

type LoginAsRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type Handler struct {
	service   *Service
	stats     *Stats
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service *Service, stats *Stats, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		stats:     stats,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

// RegisterRoutes mounts the demo support screen. It needs a device
// scope but no login.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	device func(http.Handler) http.Handler,
) {
	r.Route("/demo", func(r chi.Router) {
		r.Get("/accounts", h.Accounts)
		r.Get("/stats", h.Stats)

		r.Group(func(r chi.Router) {
			r.Use(device)
			r.Post("/login", h.LoginAs)
			r.Post("/reset", h.Reset)
		})
	})
}

func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Accounts())
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.stats.Collect(r.Context()))
}

func (h *Handler) LoginAs(w http.ResponseWriter, r *http.Request) {
	var req LoginAsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	result, err := h.service.LoginAs(ctx, middleware.GetStore(ctx), req.Email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.Reset(ctx, middleware.GetStore(ctx))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnknownAccount):
		core.NotFound(w, "demo account")
	case errors.Is(err, simulate.ErrCancelled):
		h.logger.InfoContext(r.Context(), "request abandoned", "error", err)
	default:
		core.InternalServerError(w, err)
	}
}
