package services

import (
	"context"
	"strings"

	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"go.uber.org/zap"
)

type FavoriteBackend interface {
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, productID string) error
}

// WishlistService lists and removes the user's favorite products.
type WishlistService interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Remove(ctx context.Context, userID, productID string) ([]models.Favorite, error)
}

type wishlistServiceImpl struct {
	backend FavoriteBackend
	logger  *zap.Logger
}

func NewWishlistService(backend FavoriteBackend, logger *zap.Logger) WishlistService {
	return &wishlistServiceImpl{backend: backend, logger: logger}
}

func (s *wishlistServiceImpl) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Please sign in to see your wishlist")
	}
	favorites, err := s.backend.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, nil
}

// Remove deletes productID and returns the refreshed list.
func (s *wishlistServiceImpl) Remove(ctx context.Context, userID, productID string) ([]models.Favorite, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Please sign in to manage your wishlist")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperrors.Validation("productId", "Product is required")
	}
	if err := s.backend.RemoveFavorite(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}
