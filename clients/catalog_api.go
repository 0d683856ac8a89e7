package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := b.call(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (b *BackendClient) CheckCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := b.call(ctx, http.MethodGet, "/couponCodes/check/"+url.PathEscape(code), nil, nil, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (b *BackendClient) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := b.call(ctx, http.MethodGet, "/notification", nil, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
