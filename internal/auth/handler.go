// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
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
	r.Post("/devices", h.IssueDevice)

	r.Route("/auth", func(r chi.Router) {
		r.Use(device)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Gate)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) IssueDevice(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.IssueDevice(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, token)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(r.Context(), middleware.GetStore(r.Context()), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(
				w,
				core.UnauthorizedError("Invalid email or password"),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Register(r.Context(), middleware.GetStore(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordMismatch):
			core.BadRequest(w, "Passwords do not match")
		case errors.Is(err, ErrPasswordTooShort):
			core.BadRequest(w, "Password must be at least 6 characters")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Logout(r.Context(), middleware.GetStore(r.Context())))
}
