package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/session"
	"github.com/surajacharya12/E-commerce-web-sub000/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessionRouter(m *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(Session(m, time.Hour, false))
	r.GET("/whoami", func(c *gin.Context) {
		s, err := CurrentSession(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": s.ID})
	})
	protected := r.Group("/", RequireLogin())
	protected.GET("/me", func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

type emptyCartAPI struct{}

func (emptyCartAPI) GetCart(context.Context, string) (*models.Cart, error) { return &models.Cart{}, nil }
func (emptyCartAPI) AddToCart(context.Context, string, string, int) (*models.Cart, error) {
	return &models.Cart{}, nil
}
func (emptyCartAPI) UpdateCartItem(context.Context, string, string, int) (*models.Cart, error) {
	return &models.Cart{}, nil
}
func (emptyCartAPI) RemoveFromCart(context.Context, string, string) (*models.Cart, error) {
	return &models.Cart{}, nil
}
func (emptyCartAPI) ClearCart(context.Context, string) (*models.Cart, error) { return &models.Cart{}, nil }

func newManager() *session.Manager {
	return session.NewManager(storage.NewMemoryStorage(), emptyCartAPI{}, "test", zap.NewNop())
}

func TestSession_MintsIDAndCookie(t *testing.T) {
	r := newSessionRouter(newManager())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(SessionHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"="+id)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
	assert.Contains(t, w.Body.String(), id)
}

func TestSession_ReusesCallerID(t *testing.T) {
	r := newSessionRouter(newManager())
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(SessionHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(SessionHeader))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(SessionHeader))
}

func TestSession_RejectsMalformedID(t *testing.T) {
	r := newSessionRouter(newManager())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(SessionHeader, "../other:authToken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id := w.Header().Get(SessionHeader)
	assert.NotEqual(t, "../other:authToken", id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequireLogin(t *testing.T) {
	m := newManager()
	r := newSessionRouter(m)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/signin", body["redirect"])

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, s.Auth.Login(context.Background(), "jane@example.com", "tok", &models.User{ID: "u1"}))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"u1"}`, w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000/"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
		{"allowed", http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"preflight", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
		{"blocked", http.MethodGet, "https://evil.example", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2, time.Minute)
	r := gin.New()
	r.Use(RateLimitMiddleware(rl))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Security-Policy"), "default-src 'self'"))
}
