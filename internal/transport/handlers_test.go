package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoekart/internal/domain"
	"shoekart/internal/middleware"
	"shoekart/internal/repository"
	"shoekart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// Mock services for handler tests

type mockCartService struct {
	view    *service.CartView
	addErr  error
	editErr error
}

func (m *mockCartService) View(ctx context.Context, userID uuid.UUID) (*service.CartView, error) {
	if m.view != nil {
		return m.view, nil
	}
	return &service.CartView{CartID: uuid.New(), Lines: []domain.CartLine{}}, nil
}

func (m *mockCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return m.addErr
}

func (m *mockCartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return m.editErr
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.editErr
}

type mockCheckoutService struct {
	order *domain.Order
	err   error
}

func (m *mockCheckoutService) Checkout(ctx context.Context, userID uuid.UUID, input service.CheckoutInput) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

type mockOrderService struct {
	orders []*domain.Order
	order  *domain.Order
	lines  []domain.OrderLine
	err    error
}

func (m *mockOrderService) ListOwn(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return m.orders, m.err
}

func (m *mockOrderService) GetOwn(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, []domain.OrderLine, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.order, m.lines, nil
}

func bearerToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + signed
}

func newAuthedRouter(t *testing.T, register func(r chi.Router, auth func(http.Handler) http.Handler)) chi.Router {
	t.Helper()

	logger, _ := zap.NewDevelopment()
	router := chi.NewRouter()
	register(router, middleware.AuthMiddleware(testSecret, logger))
	return router
}

func checkoutBody() []byte {
	body, _ := json.Marshal(map[string]string{
		"payment_method":       "cod",
		"delivery_name":        "Test Shopper",
		"delivery_phone":       "+15550100",
		"delivery_address1":    "1 Main St",
		"delivery_city":        "Springfield",
		"delivery_state":       "IL",
		"delivery_postal_code": "62701",
		"delivery_country":     "US",
	})
	return body
}

func TestCheckoutRedirectsOnEmptyCart(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := NewOrderHandler(&mockCheckoutService{err: service.ErrCartEmpty}, &mockOrderService{}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), domain.RoleUser))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for empty cart, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/api/cart" {
		t.Errorf("expected redirect to /api/cart, got %q", loc)
	}
}

func TestCheckoutReportsInsufficientStock(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	stockErr := &repository.InsufficientStockError{ProductID: uuid.New(), ProductName: "Trail Master GTX"}
	handler := NewOrderHandler(&mockCheckoutService{err: stockErr}, &mockOrderService{}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), domain.RoleUser))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for insufficient stock, got %d", w.Code)
	}

	var response middleware.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	if response.Error.Message != "insufficient stock for Trail Master GTX" {
		t.Errorf("expected the product to be named, got %q", response.Error.Message)
	}
}

func TestCheckoutReturnsCreatedOrder(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	userID := uuid.New()
	order := &domain.Order{
		ID:         uuid.New(),
		UserID:     userID,
		TotalCents: 174975,
		Status:     domain.OrderStatusPending,
	}
	handler := NewOrderHandler(&mockCheckoutService{order: order}, &mockOrderService{}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, userID, domain.RoleUser))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var got domain.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse order: %v", err)
	}
	if got.TotalCents != 174975 {
		t.Errorf("expected total 174975, got %d", got.TotalCents)
	}
}

func TestCheckoutValidatesPayload(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	// Unknown payment method and missing delivery fields
	body, _ := json.Marshal(map[string]string{"payment_method": "barter"})
	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), domain.RoleUser))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid payload, got %d", w.Code)
	}
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{err: repository.ErrOrderNotFound}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	req := httptest.NewRequest("GET", "/api/orders/"+uuid.New().String(), nil)
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), domain.RoleUser))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another user's order, got %d", w.Code)
	}
}

func TestAddCartItemMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"out of stock", service.ErrOutOfStock, http.StatusBadRequest},
		{"unknown product", repository.ErrProductNotFound, http.StatusNotFound},
		{"success", nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, _ := zap.NewDevelopment()
			handler := NewCartHandler(&mockCartService{addErr: tc.err}, logger)
			router := newAuthedRouter(t, handler.RegisterRoutes)

			body, _ := json.Marshal(map[string]interface{}{
				"product_id": uuid.New().String(),
				"quantity":   2,
			})
			req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearerToken(t, uuid.New(), domain.RoleUser))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, w.Code)
			}
		})
	}
}

func TestAddCartItemRejectsNonPositiveQuantity(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := NewCartHandler(&mockCartService{}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	body, _ := json.Marshal(map[string]interface{}{
		"product_id": uuid.New().String(),
		"quantity":   -1,
	})
	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), domain.RoleUser))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative quantity, got %d", w.Code)
	}
}

func TestUpdateCartItemForeignLineReads404(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := NewCartHandler(&mockCartService{editErr: repository.ErrCartItemNotFound}, logger)
	router := newAuthedRouter(t, handler.RegisterRoutes)

	body, _ := json.Marshal(map[string]interface{}{"quantity": 3})
	req := httptest.NewRequest("PUT", "/api/cart/items/"+uuid.New().String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), domain.RoleUser))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign cart line, got %d", w.Code)
	}
}
