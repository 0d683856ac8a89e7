package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"go.uber.org/zap"
)

type AccountBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	SendResetCode(ctx context.Context, req models.ForgotPasswordSendRequest) error
	VerifyResetCode(ctx context.Context, req models.ForgotPasswordVerifyRequest) error
	ResetPassword(ctx context.Context, req models.ForgotPasswordResetRequest) error
}

// SessionAuth is the signed-in state the account service writes to.
type SessionAuth interface {
	Login(ctx context.Context, email, token string, user *models.User) error
	Logout(ctx context.Context) error
	Session() models.Session
}

// AccountService handles sign-in, sign-up and password recovery.
type AccountService interface {
	Login(ctx context.Context, auth SessionAuth, req models.LoginRequest) (models.Session, error)
	Logout(ctx context.Context, auth SessionAuth) error
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	SendResetCode(ctx context.Context, req models.ForgotPasswordSendRequest) error
	VerifyResetCode(ctx context.Context, req models.ForgotPasswordVerifyRequest) error
	ResetPassword(ctx context.Context, req models.ForgotPasswordResetRequest) error
}

type accountServiceImpl struct {
	backend AccountBackend
	logger  *zap.Logger
}

func NewAccountService(backend AccountBackend, logger *zap.Logger) AccountService {
	return &accountServiceImpl{backend: backend, logger: logger}
}

func (s *accountServiceImpl) Login(ctx context.Context, auth SessionAuth, req models.LoginRequest) (models.Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return models.Session{}, err
	}

	result, err := s.backend.Login(ctx, req)
	if err != nil {
		return models.Session{}, err
	}
	if result == nil || (result.Token == "" && result.User == nil) {
		return models.Session{}, apperrors.Business(401, "Invalid email or password")
	}

	if err := auth.Login(ctx, req.Email, result.Token, result.User); err != nil {
		return models.Session{}, apperrors.Internal("failed to save session", err)
	}
	session := auth.Session()
	s.logger.Info("user signed in", zap.String("user_id", session.UserID))
	return session, nil
}

func (s *accountServiceImpl) Logout(ctx context.Context, auth SessionAuth) error {
	userID := auth.Session().UserID
	if err := auth.Logout(ctx); err != nil {
		return apperrors.Internal("failed to clear session", err)
	}
	s.logger.Info("user signed out", zap.String("user_id", userID))
	return nil
}

func (s *accountServiceImpl) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{Name: req.Name, Email: req.Email, Phone: req.Phone}
	}
	return user, nil
}

func (s *accountServiceImpl) SendResetCode(ctx context.Context, req models.ForgotPasswordSendRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return err
	}
	return s.backend.SendResetCode(ctx, req)
}

func (s *accountServiceImpl) VerifyResetCode(ctx context.Context, req models.ForgotPasswordVerifyRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	if err := validateRequest(req); err != nil {
		return err
	}
	return s.backend.VerifyResetCode(ctx, req)
}

func (s *accountServiceImpl) ResetPassword(ctx context.Context, req models.ForgotPasswordResetRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	if err := validateRequest(req); err != nil {
		return err
	}
	return s.backend.ResetPassword(ctx, req)
}

var requestValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// validateRequest reports the first invalid field as a validation error.
func validateRequest(req interface{}) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation("", "Please check the form and try again")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.Validation(fe.Field(), fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return apperrors.Validation(fe.Field(), "Enter a valid email address")
	case "min":
		return apperrors.Validation(fe.Field(), fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
	default:
		return apperrors.Validation(fe.Field(), fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
