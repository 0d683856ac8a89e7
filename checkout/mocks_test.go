package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"go.uber.org/zap"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListStores(ctx context.Context) ([]models.Store, error) {
	args := m.Called(ctx)
	stores, _ := args.Get(0).([]models.Store)
	return stores, args.Error(1)
}

func (m *MockBackend) CheckCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	coupon, _ := args.Get(0).(*models.Coupon)
	return coupon, args.Error(1)
}

func (m *MockBackend) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	args := m.Called(ctx, payload)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

type fakeIdentity struct {
	userID string
	token  string
}

func (f fakeIdentity) IsLoggedIn() bool { return f.userID != "" || f.token != "" }
func (f fakeIdentity) UserID() string   { return f.userID }
func (f fakeIdentity) GetAuthToken(context.Context) (string, error) {
	return f.token, nil
}

type fakeCart struct {
	mu       sync.Mutex
	cart     models.Cart
	clearErr error
	cleared  int
}

func (f *fakeCart) Cart() models.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart
}

func (f *fakeCart) ClearCart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared++
	f.cart = models.Cart{Items: []models.CartItem{}}
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	topics   []string
	messages [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, topicArn string, message []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topicArn)
	f.messages = append(f.messages, message)
	return nil
}

type fakeMetrics struct {
	mu    sync.Mutex
	names []string
}

func (f *fakeMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return nil
}

func (f *fakeMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

func (f *fakeMetrics) IsEnabled() bool { return true }

func (f *fakeMetrics) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

func cartWith(price float64, qty int) *fakeCart {
	return &fakeCart{cart: models.Cart{
		Items: []models.CartItem{{
			Product:  models.ProductRef{Product: models.Product{ID: "p1", Name: "Kurta", Price: price}},
			Quantity: qty,
			Price:    price,
		}},
		TotalAmount: price * float64(qty),
		TotalItems:  qty,
	}}
}

func testDeps(backend *MockBackend, cart *fakeCart) Deps {
	return Deps{
		Backend:  backend,
		Identity: fakeIdentity{userID: "u1", token: "tok"},
		Cart:     cart,
		Logger:   zap.NewNop(),
		Config:   Config{SuccessCountdown: 3 * time.Second},
	}
}

var (
	storeKathmandu = models.Store{
		ID:                "s1",
		StoreName:         "Durbar Marg Outlet",
		StoreLocation:     "Durbar Marg, Kathmandu",
		StoreManagerName:  "Asha Rai",
		StoreManagerEmail: "asha@shop.example",
		StorePhoneNumber:  "9800000001",
		IsActive:          true,
	}
	storePokhara = models.Store{
		ID:               "s2",
		StoreName:        "Lakeside Store",
		StoreLocation:    "Lakeside, Pokhara",
		StoreManagerName: "Bikash Gurung",
		IsActive:         true,
	}
	storeClosed = models.Store{
		ID:            "s3",
		StoreName:     "Old Bazaar",
		StoreLocation: "Bhaktapur",
		IsActive:      false,
	}
)

func homeAddress() Address {
	return Address{
		Phone:      "9812345678",
		Street:     "12 Main Road",
		City:       "Lalitpur",
		State:      "Bagmati",
		PostalCode: "44600",
		Country:    "Nepal",
	}
}

func testCard() Card {
	return Card{CardHolder: "Jane Doe", CardNumber: "4111 1111 1111 1111", Expiry: "12/29", CVV: "123"}
}
