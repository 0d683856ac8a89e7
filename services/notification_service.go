package services

import (
	"context"
	"sort"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

type NotificationBackend interface {
	ListNotifications(ctx context.Context) ([]models.Notification, error)
}

type NotificationService interface {
	List(ctx context.Context) ([]models.Notification, error)
}

type notificationServiceImpl struct {
	backend NotificationBackend
}

func NewNotificationService(backend NotificationBackend) NotificationService {
	return &notificationServiceImpl{backend: backend}
}

// List returns notifications newest first.
func (s *notificationServiceImpl) List(ctx context.Context) ([]models.Notification, error) {
	items, err := s.backend.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []models.Notification{}, nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
