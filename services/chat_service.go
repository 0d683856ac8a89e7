package services

import (
	"context"
	"strings"

	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"go.uber.org/zap"
)

type ChatBackend interface {
	StartChat(ctx context.Context, req models.StartChatRequest) (*models.Chat, error)
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)
	SendChatMessage(ctx context.Context, chatID string, req models.SendMessageRequest) (*models.Chat, error)
	ListCustomerChats(ctx context.Context, userID string) ([]models.Chat, error)
}

// ChatService backs the chat widget and chat pages.
type ChatService interface {
	Start(ctx context.Context, userID, subject, message string) (*models.Chat, error)
	Get(ctx context.Context, chatID string) (*models.Chat, error)
	Send(ctx context.Context, chatID, userID, message string) (*models.Chat, error)
	List(ctx context.Context, userID string) ([]models.Chat, error)
}

type chatServiceImpl struct {
	backend ChatBackend
	logger  *zap.Logger
}

func NewChatService(backend ChatBackend, logger *zap.Logger) ChatService {
	return &chatServiceImpl{backend: backend, logger: logger}
}

func (s *chatServiceImpl) Start(ctx context.Context, userID, subject, message string) (*models.Chat, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Please sign in to chat with us")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.Validation("message", "Message cannot be empty")
	}

	chat, err := s.backend.StartChat(ctx, models.StartChatRequest{
		CustomerID: userID,
		Subject:    strings.TrimSpace(subject),
		Message:    message,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("chat started", zap.String("chat_id", chat.ID), zap.String("user_id", userID))
	return normalizeChat(chat), nil
}

func (s *chatServiceImpl) Get(ctx context.Context, chatID string) (*models.Chat, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, apperrors.Validation("chatId", "Chat id is required")
	}
	chat, err := s.backend.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return normalizeChat(chat), nil
}

func (s *chatServiceImpl) Send(ctx context.Context, chatID, userID, message string) (*models.Chat, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Please sign in to chat with us")
	}
	if strings.TrimSpace(chatID) == "" {
		return nil, apperrors.Validation("chatId", "Chat id is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.Validation("message", "Message cannot be empty")
	}

	chat, err := s.backend.SendChatMessage(ctx, chatID, models.SendMessageRequest{Sender: userID, Message: message})
	if err != nil {
		return nil, err
	}
	return normalizeChat(chat), nil
}

func (s *chatServiceImpl) List(ctx context.Context, userID string) ([]models.Chat, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Please sign in to see your conversations")
	}
	chats, err := s.backend.ListCustomerChats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats, nil
}

func normalizeChat(chat *models.Chat) *models.Chat {
	if chat == nil {
		return &models.Chat{Messages: []models.ChatMessage{}}
	}
	if chat.Messages == nil {
		chat.Messages = []models.ChatMessage{}
	}
	return chat
}
