package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := b.call(ctx, http.MethodGet, "/favorites/"+url.PathEscape(userID), nil, nil, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (b *BackendClient) RemoveFavorite(ctx context.Context, userID, productID string) error {
	return b.call(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(userID)+"/"+url.PathEscape(productID), nil, nil, nil)
}
