// AngelaMos | 2026
// handler.go

package esim

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/simulate"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	device func(http.Handler) http.Handler,
) {
	r.Route("/esim", func(r chi.Router) {
		r.Use(device)
		r.Use(middleware.Gate)

		r.Get("/", h.Status)
		r.Post("/activate", h.Activate)
		r.Post("/manual", h.Manual)
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Status(middleware.GetUser(r.Context())))
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.Activate(
		ctx,
		middleware.GetStore(ctx),
		middleware.GetUser(ctx),
		SupportsAutoActivation(r.UserAgent()),
	)

	switch {
	case err == nil:
		core.OK(w, result)
	case errors.Is(err, ErrActivationFailed):
		// the manual data is the useful part of a failure
		core.JSON(w, http.StatusUnprocessableEntity, core.Response{
			Success: false,
			Data:    result,
			Error: &core.ErrorBody{
				Code:    "ACTIVATION_FAILED",
				Message: result.Message,
			},
		})
	case errors.Is(err, ErrAlreadyActive):
		core.JSONError(w, core.NewAppError(err, "eSIM is already active", http.StatusConflict, "ALREADY_ACTIVE"))
	case errors.Is(err, simulate.ErrCancelled):
		h.logger.InfoContext(ctx, "activation abandoned", "error", err)
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) Manual(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Manual(middleware.GetUser(r.Context()))
	if err != nil {
		core.JSONError(w, core.NewAppError(err, "eSIM is already active", http.StatusConflict, "ALREADY_ACTIVE"))
		return
	}
	core.OK(w, result)
}
