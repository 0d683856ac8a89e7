package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) StartChat(ctx context.Context, req models.StartChatRequest) (*models.Chat, error) {
	var chat models.Chat
	if err := b.call(ctx, http.MethodPost, "/chats/start", nil, req, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (b *BackendClient) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	var chat models.Chat
	if err := b.call(ctx, http.MethodGet, "/chats/"+url.PathEscape(chatID), nil, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (b *BackendClient) SendChatMessage(ctx context.Context, chatID string, req models.SendMessageRequest) (*models.Chat, error) {
	var chat models.Chat
	if err := b.call(ctx, http.MethodPost, "/chats/"+url.PathEscape(chatID)+"/message", nil, req, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (b *BackendClient) ListCustomerChats(ctx context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	if err := b.call(ctx, http.MethodGet, "/chats/customer/"+url.PathEscape(userID), nil, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}
