package clients

import (
	"context"
	"net/http"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) ListStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := b.call(ctx, http.MethodGet, "/stores", nil, nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}
