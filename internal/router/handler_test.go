package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swara2402/Trenzy/internal/cart"
	"github.com/swara2402/Trenzy/internal/orders"
	"github.com/swara2402/Trenzy/pkg/models"
)

type fakeCatalog struct {
	products map[string]models.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	if product, ok := f.products[id]; ok {
		return &product, nil
	}
	return nil, nil
}

func (f *fakeCatalog) GetAllProducts(_ context.Context, category string) ([]models.Product, error) {
	var result []models.Product
	for _, product := range f.products {
		if category == "" || product.Category == category {
			result = append(result, product)
		}
	}
	return result, nil
}

func (f *fakeCatalog) SearchProducts(context.Context, string) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) CreateProducts(_ context.Context, products []*models.Product) ([]*models.Product, error) {
	return products, nil
}

type fakeReviews struct{}

func (fakeReviews) GetReviewsForProduct(context.Context, string) ([]models.Review, error) {
	return nil, nil
}

type fakeCustomers struct{}

func (fakeCustomers) Create(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	return customer, nil
}

func (fakeCustomers) FindByEmail(context.Context, string) (*models.Customer, error) {
	return nil, nil
}

// fakeOrders wraps the real service over an in-memory map so handler tests
// exercise the same validation and transition rules production hits.
type fakeOrders struct {
	created []models.Order
	fail    error
}

func (f *fakeOrders) CreateOrder(_ context.Context, userID string, lines []models.CartLine, address models.Address, payment models.PaymentMethod, _ string) (*models.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	items := make([]models.OrderLineSnapshot, 0, len(lines))
	var total float64
	for _, line := range lines {
		snapshot := models.SnapshotLine(line)
		items = append(items, snapshot)
		total += snapshot.Subtotal
	}
	order := models.Order{
		UserID:        userID,
		Items:         items,
		TotalPrice:    total,
		Address:       address,
		PaymentMethod: payment,
		Status:        models.StatusPending,
		OrderID:       models.GenerateOrderID(),
	}
	f.created = append(f.created, order)
	return &order, nil
}

func (f *fakeOrders) GetUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	result := []models.Order{}
	for _, order := range f.created {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (f *fakeOrders) GetOrderByID(_ context.Context, orderID string) (*models.Order, error) {
	for i := range f.created {
		if f.created[i].OrderID == orderID {
			return &f.created[i], nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) CancelOrder(ctx context.Context, orderID string) error {
	order, _ := f.GetOrderByID(ctx, orderID)
	if order == nil {
		return orders.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(models.StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", orders.ErrInvalidTransition, order.Status, models.StatusCancelled)
	}
	order.Status = models.StatusCancelled
	return nil
}

func (f *fakeOrders) AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) error {
	order, _ := f.GetOrderByID(ctx, orderID)
	if order == nil {
		return orders.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", orders.ErrInvalidTransition, order.Status, next)
	}
	order.Status = next
	return nil
}

var testProduct = models.Product{ID: "p1", Name: "Linen Throw Blanket", Price: 39.99, InStock: true}

func setupTestRouter(orderSvc OrderService) (*fakeCatalog, *cart.Manager) {
	gin.SetMode(gin.TestMode)

	catalog := &fakeCatalog{products: map[string]models.Product{"p1": testProduct}}
	carts := cart.NewManager(nil, catalog)

	Router = gin.New()
	InitializeRoutes(Dependencies{
		Products:  catalog,
		Reviews:   fakeReviews{},
		Customers: fakeCustomers{},
		Orders:    orderSvc,
		Carts:     carts,
	})
	return catalog, carts
}

func doJSON(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	Router.ServeHTTP(recorder, req)
	return recorder
}

func checkoutBody() models.CheckoutRequest {
	return models.CheckoutRequest{
		SessionID: "s1",
		Address: models.Address{
			FullName:     "A B",
			Phone:        "123",
			AddressLine1: "1 Main St",
			City:         "Pune",
			State:        "MH",
			ZipCode:      "411001",
			Country:      "IN",
		},
		PaymentMethod: models.PaymentCOD,
	}
}

func TestCheckoutRequiresUser(t *testing.T) {
	setupTestRouter(&fakeOrders{})

	recorder := doJSON(t, http.MethodPost, "/api/orders/", checkoutBody(), nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc := &fakeOrders{}
	setupTestRouter(svc)

	recorder := doJSON(t, http.MethodPost, "/api/orders/", checkoutBody(), map[string]string{"X-User-ID": "u1"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, svc.created)
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	svc := &fakeOrders{}
	_, carts := setupTestRouter(svc)

	store := carts.Get(context.Background(), "s1")
	store.AddToCart(testProduct, 2)
	store.SetOpen(true)

	recorder := doJSON(t, http.MethodPost, "/api/orders/", checkoutBody(), map[string]string{"X-User-ID": "u1"})

	require.Equal(t, http.StatusCreated, recorder.Code)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "u1", svc.created[0].UserID)
	assert.Equal(t, 79.98, svc.created[0].TotalPrice)

	assert.Empty(t, store.Lines(), "cart must be emptied after a successful checkout")
	assert.False(t, store.IsOpen(), "drawer must close after checkout")
}

func TestCheckoutFailureLeavesCartIntact(t *testing.T) {
	svc := &fakeOrders{fail: orders.ErrInvalidPayment}
	_, carts := setupTestRouter(svc)

	store := carts.Get(context.Background(), "s1")
	store.AddToCart(testProduct, 1)

	recorder := doJSON(t, http.MethodPost, "/api/orders/", checkoutBody(), map[string]string{"X-User-ID": "u1"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Len(t, store.Lines(), 1, "failed checkout must not touch the cart")
}

func TestAddToCartUnknownProduct(t *testing.T) {
	setupTestRouter(&fakeOrders{})

	recorder := doJSON(t, http.MethodPost, "/api/cart/s1/items",
		models.AddToCartRequest{ProductID: "missing", Quantity: 1}, nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddToCartReturnsRoundedTotal(t *testing.T) {
	setupTestRouter(&fakeOrders{})

	recorder := doJSON(t, http.MethodPost, "/api/cart/s1/items",
		models.AddToCartRequest{ProductID: "p1", Quantity: 3}, nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Data struct {
			TotalItems int     `json:"total_items"`
			TotalPrice float64 `json:"total_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 3, response.Data.TotalItems)
	assert.Equal(t, 119.97, response.Data.TotalPrice)
}

func TestGetOrderHidesOtherUsersOrders(t *testing.T) {
	svc := &fakeOrders{}
	_, carts := setupTestRouter(svc)

	carts.Get(context.Background(), "s1").AddToCart(testProduct, 1)
	recorder := doJSON(t, http.MethodPost, "/api/orders/", checkoutBody(), map[string]string{"X-User-ID": "u1"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	orderID := svc.created[0].OrderID

	recorder = doJSON(t, http.MethodGet, "/api/orders/"+orderID, nil, map[string]string{"X-User-ID": "someone-else"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doJSON(t, http.MethodGet, "/api/orders/"+orderID, nil, map[string]string{"X-User-ID": "u1"})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCancelDeliveredOrderIsConflict(t *testing.T) {
	svc := &fakeOrders{}
	_, carts := setupTestRouter(svc)

	carts.Get(context.Background(), "s1").AddToCart(testProduct, 1)
	recorder := doJSON(t, http.MethodPost, "/api/orders/", checkoutBody(), map[string]string{"X-User-ID": "u1"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	svc.created[0].Status = models.StatusDelivered

	recorder = doJSON(t, http.MethodPut, "/api/orders/"+svc.created[0].OrderID+"/cancel", nil, map[string]string{"X-User-ID": "u1"})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	setupTestRouter(&fakeOrders{})

	recorder := doJSON(t, http.MethodPut, "/api/orders/ORD-0-MISSING00/status",
		models.UpdateOrderStatusRequest{Status: models.StatusProcessing}, map[string]string{"X-User-ID": "u1"})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
