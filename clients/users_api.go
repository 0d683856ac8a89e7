package clients

import (
	"context"
	"net/http"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func (b *BackendClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	var result models.LoginResult
	if err := b.call(ctx, http.MethodPost, "/users/login", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *BackendClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := b.call(ctx, http.MethodPost, "/users/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (b *BackendClient) SendResetCode(ctx context.Context, req models.ForgotPasswordSendRequest) error {
	return b.call(ctx, http.MethodPost, "/users/forgot-password/send-code", nil, req, nil)
}

func (b *BackendClient) VerifyResetCode(ctx context.Context, req models.ForgotPasswordVerifyRequest) error {
	return b.call(ctx, http.MethodPost, "/users/forgot-password/verify-code", nil, req, nil)
}

func (b *BackendClient) ResetPassword(ctx context.Context, req models.ForgotPasswordResetRequest) error {
	return b.call(ctx, http.MethodPost, "/users/forgot-password/reset", nil, req, nil)
}
