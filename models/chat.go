package models

import "time"

type ChatMessage struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Chat struct {
	ID         string        `json:"_id"`
	CustomerID string        `json:"customerId"`
	Subject    string        `json:"subject,omitempty"`
	Status     string        `json:"status,omitempty"`
	Messages   []ChatMessage `json:"messages"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

type StartChatRequest struct {
	CustomerID string `json:"customerId"`
	Subject    string `json:"subject,omitempty"`
	Message    string `json:"message"`
}

type SendMessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}
