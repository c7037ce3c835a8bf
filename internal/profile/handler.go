// AngelaMos | 2026
// handler.go

package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	device func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(device)
		r.Use(middleware.Gate)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Get("/usage", h.Usage)
		r.Get("/history", h.History)
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Dashboard(middleware.GetUser(r.Context())))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.GetProfile(middleware.GetUser(r.Context())))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	user, err := h.service.UpdateProfile(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	core.OK(w, h.service.Usage(middleware.GetUser(r.Context()), country))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	filter := HistoryFilter{
		Period: r.URL.Query().Get("period"),
		Status: r.URL.Query().Get("status"),
	}

	if err := h.validator.Struct(filter); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	core.OK(w, h.service.History(filter))
}
