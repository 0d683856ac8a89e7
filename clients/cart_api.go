package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return b.cartCall(ctx, http.MethodGet, "/cart/"+url.PathEscape(userID), nil)
}

func (b *BackendClient) AddToCart(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	return b.cartCall(ctx, http.MethodPost, "/cart/add", models.CartMutation{UserID: userID, ProductID: productID, Quantity: quantity})
}

func (b *BackendClient) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	return b.cartCall(ctx, http.MethodPut, "/cart/update", models.CartMutation{UserID: userID, ProductID: productID, Quantity: quantity})
}

func (b *BackendClient) RemoveFromCart(ctx context.Context, userID, productID string) (*models.Cart, error) {
	return b.cartCall(ctx, http.MethodDelete, "/cart/remove", models.CartMutation{UserID: userID, ProductID: productID})
}

func (b *BackendClient) ClearCart(ctx context.Context, userID string) (*models.Cart, error) {
	return b.cartCall(ctx, http.MethodDelete, "/cart/clear/"+url.PathEscape(userID), nil)
}

// cartCall always yields a cart; an empty data field means an empty cart.
func (b *BackendClient) cartCall(ctx context.Context, method, path string, in interface{}) (*models.Cart, error) {
	var cart models.Cart
	if err := b.call(ctx, method, path, nil, in, &cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}
