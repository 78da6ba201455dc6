package transport

import (
	"errors"
	"net/http"

	"shoekart/internal/domain"
	"shoekart/internal/middleware"
	"shoekart/internal/repository"
	"shoekart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout payload. Everything except the
// second address line is required.
type CheckoutRequest struct {
	PaymentMethod      string `json:"payment_method" validate:"required,oneof=cod card"`
	DeliveryName       string `json:"delivery_name" validate:"required"`
	DeliveryPhone      string `json:"delivery_phone" validate:"required"`
	DeliveryAddress1   string `json:"delivery_address1" validate:"required"`
	DeliveryAddress2   string `json:"delivery_address2"`
	DeliveryCity       string `json:"delivery_city" validate:"required"`
	DeliveryState      string `json:"delivery_state" validate:"required"`
	DeliveryPostalCode string `json:"delivery_postal_code" validate:"required"`
	DeliveryCountry    string `json:"delivery_country" validate:"required"`
}

// OrderDetailResponse is an order with its lines
type OrderDetailResponse struct {
	Order *domain.Order      `json:"order"`
	Items []domain.OrderLine `json:"items"`
}

// OrderHandler handles checkout and the shopper's order history
type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	logger          *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		logger:          logger,
	}
}

// RegisterRoutes registers checkout and order routes; all require authentication
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/checkout", h.Checkout)
		r.Get("/api/orders", h.ListOrders)
		r.Get("/api/orders/{id}", h.GetOrder)
	})
}

// Checkout converts the caller's cart into an order
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.checkoutService.Checkout(r.Context(), userID, service.CheckoutInput{
		PaymentMethod:      req.PaymentMethod,
		DeliveryName:       req.DeliveryName,
		DeliveryPhone:      req.DeliveryPhone,
		DeliveryAddress1:   req.DeliveryAddress1,
		DeliveryAddress2:   req.DeliveryAddress2,
		DeliveryCity:       req.DeliveryCity,
		DeliveryState:      req.DeliveryState,
		DeliveryPostalCode: req.DeliveryPostalCode,
		DeliveryCountry:    req.DeliveryCountry,
	})
	if err != nil {
		var stockErr *repository.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrCartEmpty):
			// Checking out an empty cart is not an error; send the caller
			// back to their cart.
			http.Redirect(w, r, "/api/cart", http.StatusSeeOther)
		case errors.As(err, &stockErr):
			middleware.RespondWithError(w, http.StatusBadRequest, stockErr.Error())
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid payment method")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("total_cents", order.TotalCents),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// ListOrders returns the caller's orders, newest first
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.ListOwn(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder returns one of the caller's orders with its lines
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, items, err := h.orderService.GetOwn(r.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderDetailResponse{Order: order, Items: items})
}
