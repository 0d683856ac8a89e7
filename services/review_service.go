package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"go.uber.org/zap"
)

type RatingBackend interface {
	CreateRating(ctx context.Context, rating models.Rating) (*models.Rating, error)
	ListProductRatings(ctx context.Context, productID string) ([]models.Rating, error)
}

// ReviewService backs product ratings and reviews.
type ReviewService interface {
	Submit(ctx context.Context, rating models.Rating) (*models.Rating, error)
	Summary(ctx context.Context, productID string) (*models.RatingSummary, error)
}

type reviewServiceImpl struct {
	backend RatingBackend
	logger  *zap.Logger
}

func NewReviewService(backend RatingBackend, logger *zap.Logger) ReviewService {
	return &reviewServiceImpl{backend: backend, logger: logger}
}

func (s *reviewServiceImpl) Submit(ctx context.Context, rating models.Rating) (*models.Rating, error) {
	if rating.UserID == "" {
		return nil, apperrors.Unauthorized("Please sign in to leave a review")
	}
	rating.ProductID = strings.TrimSpace(rating.ProductID)
	if rating.ProductID == "" {
		return nil, apperrors.Validation("productId", "Product is required")
	}
	if rating.Rating < 1 || rating.Rating > 5 {
		return nil, apperrors.Validation("rating", "Rating must be between 1 and 5")
	}
	rating.Review = strings.TrimSpace(rating.Review)

	created, err := s.backend.CreateRating(ctx, rating)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return &rating, nil
	}
	return created, nil
}

func (s *reviewServiceImpl) Summary(ctx context.Context, productID string) (*models.RatingSummary, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperrors.Validation("productId", "Product is required")
	}
	ratings, err := s.backend.ListProductRatings(ctx, productID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}

	summary := &models.RatingSummary{ProductID: productID, Ratings: ratings, Count: len(ratings)}
	if len(ratings) > 0 {
		sum := decimal.Zero
		for _, r := range ratings {
			sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
		}
		summary.Average = sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(1).InexactFloat64()
	}
	return summary, nil
}
