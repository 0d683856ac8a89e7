package services

import (
	"context"
	"strings"
	"time"

	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	awspkg "github.com/surajacharya12/E-commerce-web-sub000/pkg/aws"
	"go.uber.org/zap"
)

// OrderBackend is the order surface of the REST backend.
type OrderBackend interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, update models.OrderStatusUpdate) (*models.Order, error)
}

// OrderService backs the orders, receipt and order slip screens.
type OrderService interface {
	Get(ctx context.Context, orderID string) (*models.Order, error)
	ListForUser(ctx context.Context, userID string) ([]models.Order, error)
	Cancel(ctx context.Context, orderID, reason string) (*models.Order, error)
	Receipt(ctx context.Context, orderID string) (*Receipt, error)
}

type orderServiceImpl struct {
	backend OrderBackend
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
	now     func() time.Time
}

func NewOrderService(backend OrderBackend, metrics awspkg.MetricsRecorder, logger *zap.Logger) OrderService {
	return &orderServiceImpl{
		backend: backend,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *orderServiceImpl) Get(ctx context.Context, orderID string) (*models.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, apperrors.Validation("orderId", "Order id is required")
	}
	order, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.ID == "" {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}

// ListForUser returns the user's orders, newest first as the backend sends them.
func (s *orderServiceImpl) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Please sign in to see your orders")
	}
	orders, err := s.backend.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Cancel asks the backend to cancel a pending or processing order.
func (s *orderServiceImpl) Cancel(ctx context.Context, orderID, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation("cancellationReason", "Please tell us why you are cancelling")
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Cancellable() {
		return nil, apperrors.Conflict("This order can no longer be cancelled")
	}

	updated, err := s.backend.UpdateOrderStatus(ctx, order.ID, models.OrderStatusUpdate{
		OrderStatus:        models.OrderStatusCancelled,
		CancellationReason: reason,
		CancelledAt:        s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("order cancellation failed", zap.String("order_id", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order cancelled", zap.String("order_id", order.ID))
	if s.metrics != nil && s.metrics.IsEnabled() {
		go func() {
			mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.metrics.RecordCount(mctx, awspkg.MetricOrdersCancelled, nil)
		}()
	}

	if updated == nil || updated.ID == "" {
		order.OrderStatus = models.OrderStatusCancelled
		order.CancellationReason = reason
		return order, nil
	}
	return updated, nil
}

func (s *orderServiceImpl) Receipt(ctx context.Context, orderID string) (*Receipt, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	receipt := NewReceipt(*order)
	return &receipt, nil
}
