package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	var order models.Order
	if err := b.call(ctx, http.MethodPost, "/orders", nil, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (b *BackendClient) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := b.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (b *BackendClient) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := b.call(ctx, http.MethodGet, "/orders/orderByUserId/"+url.PathEscape(userID), nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (b *BackendClient) UpdateOrderStatus(ctx context.Context, orderID string, update models.OrderStatusUpdate) (*models.Order, error) {
	var order models.Order
	if err := b.call(ctx, http.MethodPatch, "/orders/"+url.PathEscape(orderID)+"/status", nil, update, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
