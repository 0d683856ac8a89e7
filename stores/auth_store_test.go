package stores

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/storage"
	"go.uber.org/zap"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestAuthStore_LoginPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	auth := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, auth.Init(ctx))
	assert.False(t, auth.IsLoggedIn())

	user := &models.User{ID: "u1", Email: "jane@example.com", Name: "Jane"}
	require.NoError(t, auth.Login(ctx, "", "tok-1", user))

	assert.True(t, auth.IsLoggedIn())
	assert.Equal(t, "u1", auth.UserID())
	assert.Equal(t, "jane@example.com", auth.Session().Email)

	// a fresh store for the same session restores from storage
	restored := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, restored.Init(ctx))
	assert.True(t, restored.IsLoggedIn())
	assert.Equal(t, "u1", restored.UserID())
	require.NotNil(t, restored.Session().User)
	assert.Equal(t, "Jane", restored.Session().User.Name)
}

func TestAuthStore_LogoutClearsEveryKey(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	auth := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, auth.Login(ctx, "jane@example.com", "tok", &models.User{ID: "u1"}))

	require.NoError(t, auth.Logout(ctx))

	assert.False(t, auth.IsLoggedIn())
	assert.Equal(t, models.Session{}, auth.Session())
	for _, key := range storage.SessionKeys {
		v, err := st.Get(ctx, "s1", key)
		require.NoError(t, err)
		assert.Empty(t, v, key)
	}
}

func TestAuthStore_TokenAloneMeansLoggedIn(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	token := signedToken(t, jwt.MapClaims{"userId": "u-jwt", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, st.Set(ctx, "s1", storage.KeyAuthToken, token))

	auth := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, auth.Init(ctx))

	assert.True(t, auth.IsLoggedIn())
	assert.Equal(t, "u-jwt", auth.UserID(), "user id recovered from token claims")
}

func TestAuthStore_FlagAloneMeansLoggedIn(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	require.NoError(t, st.Set(ctx, "s1", storage.KeyIsLoggedIn, "true"))
	require.NoError(t, st.Set(ctx, "s1", storage.KeyUser, `{"_id":"u1","email":"a@b.c"}`))

	auth := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, auth.Init(ctx))

	assert.True(t, auth.IsLoggedIn())
	assert.Equal(t, "u1", auth.UserID())
}

func TestAuthStore_GetAuthTokenReadsStorageDirectly(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	auth := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, auth.Login(ctx, "a@b.c", "old", nil))

	// another writer swaps the token without going through this store
	require.NoError(t, st.Set(ctx, "s1", storage.KeyAuthToken, "new"))

	token, err := auth.GetAuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", token)
	assert.Equal(t, "old", auth.Session().Token)
}

func TestAuthStore_HandleChangeFollowsOtherWriters(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()

	tabA := NewAuthStore(st, "s1", zap.NewNop())
	tabB := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, tabB.Init(ctx))

	var changed []models.Session
	tabB.OnChange(func(_ context.Context, s models.Session) { changed = append(changed, s) })

	require.NoError(t, tabA.Login(ctx, "a@b.c", "tok", &models.User{ID: "u1"}))
	tabB.HandleChange(ctx, storage.Change{SessionID: "s1", Key: storage.KeyUser})
	assert.True(t, tabB.IsLoggedIn())
	assert.Equal(t, "u1", tabB.UserID())

	require.NoError(t, tabA.Logout(ctx))
	tabB.HandleChange(ctx, storage.Change{SessionID: "s1", Key: storage.KeyIsLoggedIn})
	assert.False(t, tabB.IsLoggedIn())
	assert.Len(t, changed, 2)
}

func TestAuthStore_HandleChangeIgnoresOtherSessions(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	auth := NewAuthStore(st, "s1", zap.NewNop())
	require.NoError(t, auth.Init(ctx))

	calls := 0
	auth.OnChange(func(context.Context, models.Session) { calls++ })

	require.NoError(t, st.Set(ctx, "s2", storage.KeyIsLoggedIn, "true"))
	auth.HandleChange(ctx, storage.Change{SessionID: "s2", Key: storage.KeyIsLoggedIn})
	assert.Equal(t, 0, calls)
	assert.False(t, auth.IsLoggedIn())
}
