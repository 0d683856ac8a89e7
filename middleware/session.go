package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/clients"
	"github.com/surajacharya12/E-commerce-web-sub000/logger"
	"github.com/surajacharya12/E-commerce-web-sub000/session"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "sf_session"

	sessionContextKey = "storefront_session"
	UserContextKey    = "userID"
)

// SessionProvider resolves a storefront session by id.
type SessionProvider interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Session attaches the caller's storefront session, minting a new id when the
// request carries none. The id is echoed in the X-Session-ID header and the
// sf_session cookie. A signed-in session's token is forwarded to the backend.
func Session(provider SessionProvider, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionIDFrom(c)
		if id == "" {
			id = uuid.NewString()
		}

		s, err := provider.Get(c.Request.Context(), id)
		if err != nil {
			logger.Error(c, "failed to load session", err, zap.String("session_id", id))
			appErr := apperrors.Internal("Could not load your session", err)
			c.AbortWithStatusJSON(appErr.Code, appErr.Body())
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(ttl/time.Second), "/", "", secure, true)
		c.Header(SessionHeader, id)
		c.Set(sessionContextKey, s)

		if s.Auth.IsLoggedIn() {
			token, err := s.Auth.GetAuthToken(c.Request.Context())
			if err != nil {
				logger.Warn(c, "failed to read auth token", zap.String("session_id", id), zap.Error(err))
			}
			c.Request = c.Request.WithContext(clients.WithAuthToken(c.Request.Context(), token))
			c.Set(UserContextKey, s.Auth.UserID())
		}
		c.Next()
	}
}

// sessionIDFrom accepts only well-formed ids so they can be used in storage keys.
func sessionIDFrom(c *gin.Context) string {
	candidates := []string{c.GetHeader(SessionHeader)}
	if v, err := c.Cookie(SessionCookie); err == nil {
		candidates = append(candidates, v)
	}
	for _, v := range candidates {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	return ""
}

// RequireLogin rejects requests of signed-out sessions with a redirect to sign-in.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := CurrentSession(c)
		if err != nil || !s.Auth.IsLoggedIn() {
			appErr := apperrors.Unauthorized("")
			c.AbortWithStatusJSON(appErr.Code, appErr.Body())
			return
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (*session.Session, error) {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, errors.New("session not found in context")
	}
	s, ok := val.(*session.Session)
	if !ok || s == nil {
		return nil, errors.New("session has invalid type in context")
	}
	return s, nil
}

func GetUserID(c *gin.Context) (string, error) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := val.(string)
	if !ok || userID == "" {
		return "", errors.New("user ID has invalid type in context")
	}
	return userID, nil
}
