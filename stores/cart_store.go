package stores

import (
	"context"
	"sync"

	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/clients"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"go.uber.org/zap"
)

// CartAPI is the backend surface the cart store needs.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userID, productID string) (*models.Cart, error)
	ClearCart(ctx context.Context, userID string) (*models.Cart, error)
}

// CartStore mirrors the backend cart of the signed-in user. Every mutation
// round-trips and the returned cart replaces the local copy wholesale.
type CartStore struct {
	api    CartAPI
	auth   *AuthStore
	logger *zap.Logger

	mu     sync.Mutex
	cart   models.Cart
	userID string
}

// NewCartStore subscribes the store to auth transitions.
func NewCartStore(api CartAPI, auth *AuthStore, logger *zap.Logger) *CartStore {
	c := &CartStore{
		api:    api,
		auth:   auth,
		logger: logger.With(zap.String("session_id", auth.SessionID())),
		cart:   emptyCart(),
		userID: auth.UserID(),
	}
	auth.OnChange(c.handleSessionChange)
	return c
}

// Cart returns a snapshot of the local cart.
func (c *CartStore) Cart() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := c.cart
	snapshot.Items = append([]models.CartItem{}, c.cart.Items...)
	return snapshot
}

// FetchCart is a no-op while logged out.
func (c *CartStore) FetchCart(ctx context.Context) error {
	if !c.auth.IsLoggedIn() || c.auth.UserID() == "" {
		return nil
	}
	return c.mutate(ctx, func(ctx context.Context, userID string) (*models.Cart, error) {
		return c.api.GetCart(ctx, userID)
	})
}

func (c *CartStore) AddToCart(ctx context.Context, productID string, quantity int) error {
	if err := requireLine(productID, quantity); err != nil {
		return err
	}
	return c.mutate(ctx, func(ctx context.Context, userID string) (*models.Cart, error) {
		return c.api.AddToCart(ctx, userID, productID, quantity)
	})
}

func (c *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if err := requireLine(productID, quantity); err != nil {
		return err
	}
	return c.mutate(ctx, func(ctx context.Context, userID string) (*models.Cart, error) {
		return c.api.UpdateCartItem(ctx, userID, productID, quantity)
	})
}

func (c *CartStore) RemoveFromCart(ctx context.Context, productID string) error {
	if productID == "" {
		return apperrors.Validation("productId", "Product is required")
	}
	return c.mutate(ctx, func(ctx context.Context, userID string) (*models.Cart, error) {
		return c.api.RemoveFromCart(ctx, userID, productID)
	})
}

func (c *CartStore) ClearCart(ctx context.Context) error {
	return c.mutate(ctx, func(ctx context.Context, userID string) (*models.Cart, error) {
		return c.api.ClearCart(ctx, userID)
	})
}

func (c *CartStore) IsInCart(productID string) bool {
	return c.GetItemQuantity(productID) > 0
}

func (c *CartStore) GetItemQuantity(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.cart.Find(productID)
	if !ok {
		return 0
	}
	return item.Quantity
}

// mutate runs one backend call under the store lock and adopts its cart.
// Local state is untouched on any failure.
func (c *CartStore) mutate(ctx context.Context, call func(ctx context.Context, userID string) (*models.Cart, error)) error {
	if !c.auth.IsLoggedIn() {
		return apperrors.Unauthorized("Please sign in to manage your cart")
	}
	userID := c.auth.UserID()
	if userID == "" {
		return apperrors.Unauthorized("Your session is missing a user, please sign in again")
	}

	token, err := c.auth.GetAuthToken(ctx)
	if err != nil {
		return apperrors.Internal("failed to read session", err)
	}
	ctx = clients.WithAuthToken(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()

	cart, err := call(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		cart = &models.Cart{}
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	c.cart = *cart
	c.userID = userID
	return nil
}

func (c *CartStore) handleSessionChange(ctx context.Context, s models.Session) {
	if !s.IsLoggedIn {
		c.mu.Lock()
		c.cart = emptyCart()
		c.userID = ""
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	same := s.UserID == c.userID
	if !same {
		c.cart = emptyCart()
		c.userID = ""
	}
	c.mu.Unlock()
	if same || s.UserID == "" {
		return
	}

	if err := c.FetchCart(ctx); err != nil {
		c.logger.Warn("failed to fetch cart after sign-in", zap.String("user_id", s.UserID), zap.Error(err))
	}
}

func requireLine(productID string, quantity int) error {
	if productID == "" {
		return apperrors.Validation("productId", "Product is required")
	}
	if quantity < 1 {
		return apperrors.Validation("quantity", "Quantity must be at least 1")
	}
	return nil
}

func emptyCart() models.Cart {
	return models.Cart{Items: []models.CartItem{}}
}
