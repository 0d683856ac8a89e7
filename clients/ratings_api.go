package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) CreateRating(ctx context.Context, rating models.Rating) (*models.Rating, error) {
	var created models.Rating
	if err := b.call(ctx, http.MethodPost, "/ratings", nil, rating, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (b *BackendClient) ListProductRatings(ctx context.Context, productID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := b.call(ctx, http.MethodGet, "/ratings/product/"+url.PathEscape(productID), nil, nil, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
