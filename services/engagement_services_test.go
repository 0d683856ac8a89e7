package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/services"
	"go.uber.org/zap"
)

// --- Fake backend covering chats, ratings, favorites and notifications ---

type fakeEngagementBackend struct {
	chats         map[string]*models.Chat
	sent          []models.SendMessageRequest
	ratings       []models.Rating
	favorites     []models.Favorite
	notifications []models.Notification
}

func newFakeEngagementBackend() *fakeEngagementBackend {
	return &fakeEngagementBackend{chats: make(map[string]*models.Chat)}
}

func (f *fakeEngagementBackend) StartChat(_ context.Context, req models.StartChatRequest) (*models.Chat, error) {
	chat := &models.Chat{
		ID:         "c1",
		CustomerID: req.CustomerID,
		Subject:    req.Subject,
		Messages:   []models.ChatMessage{{Sender: req.CustomerID, Message: req.Message}},
	}
	f.chats[chat.ID] = chat
	return chat, nil
}

func (f *fakeEngagementBackend) GetChat(_ context.Context, chatID string) (*models.Chat, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, apperrors.Business(404, "Chat not found")
	}
	return chat, nil
}

func (f *fakeEngagementBackend) SendChatMessage(_ context.Context, chatID string, req models.SendMessageRequest) (*models.Chat, error) {
	f.sent = append(f.sent, req)
	chat := f.chats[chatID]
	chat.Messages = append(chat.Messages, models.ChatMessage{Sender: req.Sender, Message: req.Message})
	return chat, nil
}

func (f *fakeEngagementBackend) ListCustomerChats(context.Context, string) ([]models.Chat, error) {
	return nil, nil
}

func (f *fakeEngagementBackend) CreateRating(_ context.Context, rating models.Rating) (*models.Rating, error) {
	rating.ID = "r1"
	f.ratings = append(f.ratings, rating)
	return &rating, nil
}

func (f *fakeEngagementBackend) ListProductRatings(context.Context, string) ([]models.Rating, error) {
	return f.ratings, nil
}

func (f *fakeEngagementBackend) ListFavorites(context.Context, string) ([]models.Favorite, error) {
	return f.favorites, nil
}

func (f *fakeEngagementBackend) RemoveFavorite(_ context.Context, _, productID string) error {
	kept := f.favorites[:0]
	for _, fav := range f.favorites {
		if fav.Product.ID != productID {
			kept = append(kept, fav)
		}
	}
	f.favorites = kept
	return nil
}

func (f *fakeEngagementBackend) ListNotifications(context.Context) ([]models.Notification, error) {
	return f.notifications, nil
}

func TestChatService(t *testing.T) {
	backend := newFakeEngagementBackend()
	svc := services.NewChatService(backend, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Start(ctx, "", "Order help", "hello")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	chat, err := svc.Start(ctx, "u1", "Order help", " Where is my order? ")
	require.NoError(t, err)
	assert.Equal(t, "Where is my order?", chat.Messages[0].Message)

	_, err = svc.Send(ctx, chat.ID, "u1", "   ")
	assert.Equal(t, "message", apperrors.From(err).Field)
	assert.Empty(t, backend.sent)

	chat, err = svc.Send(ctx, chat.ID, "u1", "Order o1")
	require.NoError(t, err)
	assert.Len(t, chat.Messages, 2)
	assert.Equal(t, models.SendMessageRequest{Sender: "u1", Message: "Order o1"}, backend.sent[0])

	_, err = svc.Get(ctx, "missing")
	assert.Equal(t, "Chat not found", apperrors.From(err).Message)

	chats, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, chats)
}

func TestReviewService(t *testing.T) {
	backend := newFakeEngagementBackend()
	svc := services.NewReviewService(backend, zap.NewNop())
	ctx := context.Background()

	for _, bad := range []int{0, 6} {
		_, err := svc.Submit(ctx, models.Rating{ProductID: "p1", UserID: "u1", Rating: bad})
		assert.Equal(t, "rating", apperrors.From(err).Field)
	}
	_, err := svc.Submit(ctx, models.Rating{ProductID: " ", UserID: "u1", Rating: 4})
	assert.Equal(t, "productId", apperrors.From(err).Field)
	_, err = svc.Submit(ctx, models.Rating{ProductID: "p1", Rating: 4})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	for _, stars := range []int{5, 4, 4} {
		_, err := svc.Submit(ctx, models.Rating{ProductID: "p1", UserID: "u1", Rating: stars, Review: " Great fit "})
		require.NoError(t, err)
	}
	assert.Equal(t, "Great fit", backend.ratings[0].Review)

	summary, err := svc.Summary(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 4.3, summary.Average)
}

func TestWishlistService(t *testing.T) {
	backend := newFakeEngagementBackend()
	backend.favorites = []models.Favorite{
		{ID: "f1", UserID: "u1", Product: models.ProductRef{Product: models.Product{ID: "p1"}}},
		{ID: "f2", UserID: "u1", Product: models.ProductRef{Product: models.Product{ID: "p2"}}},
	}
	svc := services.NewWishlistService(backend, zap.NewNop())
	ctx := context.Background()

	_, err := svc.List(ctx, "")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	remaining, err := svc.Remove(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "p2", remaining[0].Product.ID)
}

func TestNotificationService_NewestFirst(t *testing.T) {
	backend := newFakeEngagementBackend()
	day := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	backend.notifications = []models.Notification{
		{ID: "n1", Title: "Old", CreatedAt: day},
		{ID: "n2", Title: "New", CreatedAt: day.Add(48 * time.Hour)},
	}
	svc := services.NewNotificationService(backend)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n2", items[0].ID)

	backend.notifications = nil
	items, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
}
