// AngelaMos | 2026
// handler.go

package billing

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
	r.Get("/plans/catalog", h.Catalog)

	r.Group(func(r chi.Router) {
		r.Use(device)
		r.Use(middleware.Gate)

		r.Get("/plans", h.Plans)
		r.Post("/plans/purchase", h.Purchase)

		r.Route("/topup", func(r chi.Router) {
			r.Get("/", h.View)
			r.Post("/", h.TopUp)
			r.Post("/pay", h.Pay)
			r.Get("/recommendations", h.Recommendations)
			r.Post("/recommendations/select", h.SelectRecommendation)
		})

		r.Route("/autorenew", func(r chi.Router) {
			r.Post("/toggle", h.ToggleAutoRenew)
			r.Post("/amount", h.SetPreferredTopUp)
		})
	})
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	core.OK(w, PlanCatalog())
}

func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	core.OK(w, h.service.Plans(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx)))
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	core.OK(w, h.service.View(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx)))
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	ctx := r.Context()
	result, err := h.service.TopUp(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx), req.Amount)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	result, err := h.service.Pay(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Recommendations(middleware.GetUser(r.Context())))
}

func (h *Handler) SelectRecommendation(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	ctx := r.Context()
	result, err := h.service.SelectRecommendation(ctx, middleware.GetStore(ctx), req.Amount)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	result, err := h.service.Purchase(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) ToggleAutoRenew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.ToggleAutoRenew(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) SetPreferredTopUp(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	ctx := r.Context()
	result, err := h.service.SetPreferredTopUp(ctx, middleware.GetStore(ctx), middleware.GetUser(ctx), req.Amount)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		balanceErr *InsufficientBalanceError
		paymentErr *PaymentError
		cardErr    *CardError
	)

	switch {
	case errors.Is(err, simulate.ErrCancelled):
		h.logger.InfoContext(r.Context(), "request abandoned", "error", err)
	case errors.As(err, &balanceErr):
		core.JSONError(w, core.NewAppError(
			err,
			"Insufficient balance. Please top up to continue.",
			http.StatusPaymentRequired,
			"INSUFFICIENT_BALANCE",
		).WithRedirect(TopUpPath))
	case errors.As(err, &paymentErr):
		core.JSONError(w, core.NewAppError(
			err,
			paymentErr.Message,
			http.StatusPaymentRequired,
			"PAYMENT_FAILED",
		))
	case errors.As(err, &cardErr):
		core.BadRequest(w, cardErr.Message)
	case errors.Is(err, ErrInvalidAmount):
		core.BadRequest(w, "Please enter a valid amount")
	case errors.Is(err, ErrNoSavedCard):
		core.BadRequest(w, "No saved card on this device")
	case errors.Is(err, ErrUnsupportedMethod):
		core.BadRequest(w, "Unsupported payment method")
	case errors.Is(err, ErrUnknownPlan):
		core.NotFound(w, "plan")
	default:
		core.InternalServerError(w, err)
	}
}
