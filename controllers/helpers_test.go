package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/checkout"
	"github.com/surajacharya12/E-commerce-web-sub000/clients"
	"github.com/surajacharya12/E-commerce-web-sub000/controllers"
	"github.com/surajacharya12/E-commerce-web-sub000/middleware"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/routes"
	"github.com/surajacharya12/E-commerce-web-sub000/services"
	"github.com/surajacharya12/E-commerce-web-sub000/session"
	"github.com/surajacharya12/E-commerce-web-sub000/storage"
	"go.uber.org/zap"
)

// ---- fake REST backend ----

type fakeBackend struct {
	mu sync.Mutex

	cart      models.Cart
	cleared   int
	products  map[string]models.Product
	stores    []models.Store
	orders    map[string]models.Order
	placed    []models.OrderPayload
	rawOrders []string
	orderAuth string

	storeFailures int
	orderError    string

	ratings   []models.Rating
	favorites []models.Favorite
	chats     map[string]models.Chat
	resets    []string
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Kurta", Price: 500},
			"p2": {ID: "p2", Name: "Pashmina Shawl", Price: 750, Colors: []string{"Red", "Blue"}, Sizes: []string{"M", "L"}},
			"p3": {ID: "p3", Name: "Dhaka Topi", Price: 250},
		},
		stores: []models.Store{
			{ID: "s1", StoreName: "Kathmandu Flagship", StoreLocation: "Durbar Marg, Kathmandu", StoreManagerName: "Asha Rai", StorePhoneNumber: "01-4220000", IsActive: true},
			{ID: "s2", StoreName: "Lakeside Outlet", StoreLocation: "Lakeside, Pokhara", StoreManagerName: "Bikash Gurung", IsActive: true},
			{ID: "s3", StoreName: "Bhaktapur Depot", StoreLocation: "Bhaktapur", IsActive: false},
		},
		orders: map[string]models.Order{},
		chats:  map[string]models.Chat{},
		favorites: []models.Favorite{
			{ID: "f1", UserID: "u1", Product: models.ProductRef{Product: models.Product{ID: "p1", Name: "Kurta", Price: 500}}},
		},
		ratings: []models.Rating{
			{ID: "r1", ProductID: "p1", UserID: "u2", Rating: 4},
			{ID: "r2", ProductID: "p1", UserID: "u3", Rating: 5},
		},
	}
	f.setCartLocked("p1", 2)
	return f
}

// setCartLocked sets the quantity of productID, removing the line at zero.
func (f *fakeBackend) setCartLocked(productID string, quantity int) {
	items := make([]models.CartItem, 0, len(f.cart.Items)+1)
	found := false
	for _, item := range f.cart.Items {
		if item.Product.ID == productID {
			found = true
			item.Quantity = quantity
		}
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	if !found && quantity > 0 {
		p := f.products[productID]
		items = append(items, models.CartItem{Product: models.ProductRef{Product: p}, Quantity: quantity, Price: p.Price})
	}

	f.cart = models.Cart{UserID: "u1", Items: items}
	for _, item := range items {
		f.cart.TotalItems += item.Quantity
		f.cart.TotalAmount += item.Price * float64(item.Quantity)
	}
}

func (f *fakeBackend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeFail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeData(w, http.StatusOK, models.LoginResult{
			Token: "tok-u1",
			User:  &models.User{ID: "u1", Name: "Jane", Email: req.Email},
		})
	})
	mux.HandleFunc("POST /users/register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeData(w, http.StatusCreated, models.User{ID: "u9", Name: req.Name, Email: req.Email})
	})
	mux.HandleFunc("POST /users/forgot-password/{step}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.resets = append(f.resets, r.PathValue("step"))
		f.mu.Unlock()
		writeData(w, http.StatusOK, nil)
	})

	mux.HandleFunc("GET /cart/{userId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeData(w, http.StatusOK, f.cart)
	})
	mux.HandleFunc("POST /cart/add", func(w http.ResponseWriter, r *http.Request) {
		var m models.CartMutation
		_ = json.NewDecoder(r.Body).Decode(&m)
		f.mu.Lock()
		defer f.mu.Unlock()
		current := 0
		for _, item := range f.cart.Items {
			if item.Product.ID == m.ProductID {
				current = item.Quantity
			}
		}
		f.setCartLocked(m.ProductID, current+m.Quantity)
		writeData(w, http.StatusOK, f.cart)
	})
	mux.HandleFunc("PUT /cart/update", func(w http.ResponseWriter, r *http.Request) {
		var m models.CartMutation
		_ = json.NewDecoder(r.Body).Decode(&m)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.setCartLocked(m.ProductID, m.Quantity)
		writeData(w, http.StatusOK, f.cart)
	})
	mux.HandleFunc("DELETE /cart/remove", func(w http.ResponseWriter, r *http.Request) {
		var m models.CartMutation
		_ = json.NewDecoder(r.Body).Decode(&m)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.setCartLocked(m.ProductID, 0)
		writeData(w, http.StatusOK, f.cart)
	})
	mux.HandleFunc("DELETE /cart/clear/{userId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cleared++
		f.cart = models.Cart{UserID: "u1", Items: []models.CartItem{}}
		writeData(w, http.StatusOK, f.cart)
	})

	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := f.products[r.PathValue("id")]
		if !ok {
			writeFail(w, http.StatusNotFound, "Product not found")
			return
		}
		writeData(w, http.StatusOK, p)
	})
	mux.HandleFunc("GET /stores", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.storeFailures > 0 {
			f.storeFailures--
			writeFail(w, http.StatusServiceUnavailable, "Store service down")
			return
		}
		writeData(w, http.StatusOK, f.stores)
	})
	mux.HandleFunc("GET /couponCodes/check/{code}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("code") != "SAVE20" {
			writeFail(w, http.StatusNotFound, "Coupon not found")
			return
		}
		writeData(w, http.StatusOK, models.Coupon{CouponCode: "SAVE20", DiscountType: models.DiscountPercentage, DiscountAmount: 20})
	})

	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload models.OrderPayload
		_ = json.Unmarshal(raw, &payload)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.rawOrders = append(f.rawOrders, string(raw))
		f.orderAuth = r.Header.Get("Authorization")
		if f.orderError != "" {
			writeFail(w, http.StatusInternalServerError, f.orderError)
			return
		}
		f.placed = append(f.placed, payload)
		order := orderFromPayload(fmt.Sprintf("o-%d", len(f.placed)), payload)
		f.orders[order.ID] = order
		writeData(w, http.StatusCreated, order)
	})
	mux.HandleFunc("GET /orders/orderByUserId/{userId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		orders := make([]models.Order, 0, len(f.orders))
		for _, o := range f.orders {
			if o.UserID == r.PathValue("userId") {
				orders = append(orders, o)
			}
		}
		sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
		writeData(w, http.StatusOK, orders)
	})
	mux.HandleFunc("GET /orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		o, ok := f.orders[r.PathValue("id")]
		if !ok {
			writeFail(w, http.StatusNotFound, "Order not found")
			return
		}
		writeData(w, http.StatusOK, o)
	})
	mux.HandleFunc("PATCH /orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var update models.OrderStatusUpdate
		_ = json.NewDecoder(r.Body).Decode(&update)
		f.mu.Lock()
		defer f.mu.Unlock()
		o := f.orders[r.PathValue("id")]
		o.OrderStatus = update.OrderStatus
		o.CancellationReason = update.CancellationReason
		o.CancelledAt = &update.CancelledAt
		f.orders[o.ID] = o
		writeData(w, http.StatusOK, o)
	})

	mux.HandleFunc("POST /chats/start", func(w http.ResponseWriter, r *http.Request) {
		var req models.StartChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		chat := models.Chat{
			ID:         "c-1",
			CustomerID: req.CustomerID,
			Subject:    req.Subject,
			Status:     "open",
			Messages:   []models.ChatMessage{{Sender: "customer", Message: req.Message}},
		}
		f.chats[chat.ID] = chat
		writeData(w, http.StatusCreated, chat)
	})
	mux.HandleFunc("POST /chats/{id}/message", func(w http.ResponseWriter, r *http.Request) {
		var req models.SendMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		chat, ok := f.chats[r.PathValue("id")]
		if !ok {
			writeFail(w, http.StatusNotFound, "Chat not found")
			return
		}
		chat.Messages = append(chat.Messages, models.ChatMessage{Sender: req.Sender, Message: req.Message})
		f.chats[chat.ID] = chat
		writeData(w, http.StatusOK, chat)
	})
	mux.HandleFunc("GET /chats/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		chat, ok := f.chats[r.PathValue("id")]
		if !ok {
			writeFail(w, http.StatusNotFound, "Chat not found")
			return
		}
		writeData(w, http.StatusOK, chat)
	})
	mux.HandleFunc("GET /chats/customer/{userId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		chats := []models.Chat{}
		for _, chat := range f.chats {
			if chat.CustomerID == r.PathValue("userId") {
				chats = append(chats, chat)
			}
		}
		writeData(w, http.StatusOK, chats)
	})

	mux.HandleFunc("GET /ratings/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		ratings := []models.Rating{}
		for _, rt := range f.ratings {
			if rt.ProductID == r.PathValue("id") {
				ratings = append(ratings, rt)
			}
		}
		writeData(w, http.StatusOK, ratings)
	})
	mux.HandleFunc("POST /ratings", func(w http.ResponseWriter, r *http.Request) {
		var rating models.Rating
		_ = json.NewDecoder(r.Body).Decode(&rating)
		f.mu.Lock()
		defer f.mu.Unlock()
		rating.ID = "r-new"
		f.ratings = append(f.ratings, rating)
		writeData(w, http.StatusCreated, rating)
	})

	mux.HandleFunc("GET /favorites/{userId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeData(w, http.StatusOK, f.favorites)
	})
	mux.HandleFunc("DELETE /favorites/{userId}/{productId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		kept := []models.Favorite{}
		for _, fav := range f.favorites {
			if fav.Product.ID != r.PathValue("productId") {
				kept = append(kept, fav)
			}
		}
		f.favorites = kept
		writeData(w, http.StatusOK, nil)
	})

	mux.HandleFunc("GET /notification", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, []models.Notification{
			{ID: "n1", Title: "Dashain sale", CreatedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "n2", Title: "Tihar offers", CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		})
	})

	return mux
}

func orderFromPayload(id string, p models.OrderPayload) models.Order {
	return models.Order{
		ID:              id,
		UserID:          p.UserID,
		Items:           p.Items,
		TotalPrice:      p.TotalPrice,
		ShippingAddress: p.ShippingAddress,
		PaymentMethod:   p.PaymentMethod,
		DeliveryMethod:  p.DeliveryMethod,
		DeliveryFee:     p.DeliveryFee,
		SelectedStore:   p.SelectedStore,
		CouponCode:      p.CouponCode,
		OrderTotal:      p.OrderTotal,
		OrderStatus:     models.OrderStatusPending,
		OrderDate:       time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gin.H{"success": true, "data": data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gin.H{"success": false, "message": message})
}

// ---- storefront under test ----

type testEnv struct {
	router   *gin.Engine
	backend  *fakeBackend
	registry *checkout.Registry
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := newFakeBackend()
	srv := httptest.NewServer(fb.routes())
	t.Cleanup(srv.Close)

	client := clients.NewBackendClient(srv.URL, 5*time.Second)
	log := zap.NewNop()
	sessions := session.NewManager(storage.NewMemoryStorage(), client, "test", log)
	registry := checkout.NewRegistry(log)

	ctrl := routes.Controllers{
		Account: controllers.NewAccountController(services.NewAccountService(client, log)),
		Cart:    controllers.NewCartController(),
		Checkout: controllers.NewCheckoutController(registry, client, nil, nil, log, checkout.Config{
			SuccessCountdown: 3 * time.Second,
		}),
		Orders: controllers.NewOrderController(services.NewOrderService(client, nil, log)),
		Engagement: controllers.NewEngagementController(
			services.NewChatService(client, log),
			services.NewReviewService(client, log),
			services.NewWishlistService(client, log),
			services.NewNotificationService(client),
		),
	}

	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())
	routes.RegisterRoutes(r, ctrl, middleware.Session(sessions, time.Hour, false))

	return &testEnv{router: r, backend: fb, registry: registry, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signIn logs a fresh session in as u1 and returns its id.
func (e *testEnv) signIn(t *testing.T) string {
	t.Helper()
	sid := uuid.NewString()
	w := e.do(t, http.MethodPost, "/storefront/auth/login", sid, gin.H{"email": " Jane@Example.com ", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sid
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(strings.NewReader(w.Body.String())).Decode(out), w.Body.String())
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	decodeJSON(t, w, &body)
	return body
}
