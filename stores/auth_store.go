package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v4"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/storage"
	"go.uber.org/zap"
)

// SessionObserver is told about every change of signed-in state.
type SessionObserver func(ctx context.Context, session models.Session)

// AuthStore is the signed-in state of one storefront session, backed by Storage
// so that it survives restarts and is shared by every instance.
type AuthStore struct {
	storage   storage.Storage
	sessionID string
	logger    *zap.Logger

	mu        sync.RWMutex
	session   models.Session
	observers []SessionObserver
}

func NewAuthStore(st storage.Storage, sessionID string, logger *zap.Logger) *AuthStore {
	return &AuthStore{
		storage:   st,
		sessionID: sessionID,
		logger:    logger.With(zap.String("session_id", sessionID)),
	}
}

// Init reads the persisted keys once.
func (a *AuthStore) Init(ctx context.Context) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
	return nil
}

// OnChange registers fn for login, logout and re-sync transitions.
func (a *AuthStore) OnChange(fn SessionObserver) {
	a.mu.Lock()
	a.observers = append(a.observers, fn)
	a.mu.Unlock()
}

// Login persists the session. Token and user are optional.
func (a *AuthStore) Login(ctx context.Context, email, token string, user *models.User) error {
	if email == "" && user != nil {
		email = user.Email
	}

	if err := a.storage.Set(ctx, a.sessionID, storage.KeyIsLoggedIn, "true"); err != nil {
		return fmt.Errorf("persist login flag: %w", err)
	}
	if err := a.storage.Set(ctx, a.sessionID, storage.KeyUserEmail, email); err != nil {
		return fmt.Errorf("persist email: %w", err)
	}
	if token != "" {
		if err := a.storage.Set(ctx, a.sessionID, storage.KeyAuthToken, token); err != nil {
			return fmt.Errorf("persist token: %w", err)
		}
	} else if err := a.storage.Remove(ctx, a.sessionID, storage.KeyAuthToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		if err := a.storage.Set(ctx, a.sessionID, storage.KeyUser, string(raw)); err != nil {
			return fmt.Errorf("persist user: %w", err)
		}
	} else if err := a.storage.Remove(ctx, a.sessionID, storage.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}

	a.replace(ctx, buildSession(true, email, token, user, a.logger))
	return nil
}

// Logout clears every persisted key and the in-memory state.
func (a *AuthStore) Logout(ctx context.Context) error {
	if err := a.storage.Remove(ctx, a.sessionID, storage.SessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.replace(ctx, models.Session{})
	return nil
}

// GetAuthToken reads the token straight from storage, not from memory.
func (a *AuthStore) GetAuthToken(ctx context.Context) (string, error) {
	return a.storage.Get(ctx, a.sessionID, storage.KeyAuthToken)
}

func (a *AuthStore) Session() models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// IsLoggedIn accepts either the login flag or a token.
func (a *AuthStore) IsLoggedIn() bool {
	s := a.Session()
	return s.IsLoggedIn || s.Token != ""
}

func (a *AuthStore) UserID() string {
	return a.Session().UserID
}

func (a *AuthStore) SessionID() string {
	return a.sessionID
}

// Resync reloads persisted state after another instance or tab changed it.
func (a *AuthStore) Resync(ctx context.Context) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	a.replace(ctx, s)
	return nil
}

// HandleChange re-syncs when change concerns this session's auth keys.
func (a *AuthStore) HandleChange(ctx context.Context, change storage.Change) {
	if change.SessionID != a.sessionID || !isSessionKey(change.Key) {
		return
	}
	if err := a.Resync(ctx); err != nil {
		a.logger.Warn("auth re-sync failed", zap.Error(err))
	}
}

func (a *AuthStore) replace(ctx context.Context, next models.Session) {
	a.mu.Lock()
	changed := !a.session.SameIdentity(next)
	a.session = next
	observers := append([]SessionObserver(nil), a.observers...)
	a.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range observers {
		fn(ctx, next)
	}
}

func (a *AuthStore) load(ctx context.Context) (models.Session, error) {
	values := make(map[string]string, len(storage.SessionKeys))
	for _, key := range storage.SessionKeys {
		v, err := a.storage.Get(ctx, a.sessionID, key)
		if err != nil {
			return models.Session{}, fmt.Errorf("read %s: %w", key, err)
		}
		values[key] = v
	}

	var user *models.User
	if raw := values[storage.KeyUser]; raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			a.logger.Warn("ignoring malformed persisted user", zap.Error(err))
		} else {
			user = &u
		}
	}

	return buildSession(values[storage.KeyIsLoggedIn] == "true", values[storage.KeyUserEmail], values[storage.KeyAuthToken], user, a.logger), nil
}

func buildSession(flag bool, email, token string, user *models.User, logger *zap.Logger) models.Session {
	s := models.Session{
		IsLoggedIn: flag || token != "",
		Email:      email,
		Token:      token,
		User:       user,
	}
	if !s.IsLoggedIn {
		return models.Session{}
	}
	if user != nil && user.ID != "" {
		s.UserID = user.ID
	} else if token != "" {
		s.UserID = userIDFromToken(token, logger)
	}
	return s
}

// userIDFromToken reads the subject claim without verifying the signature.
// The backend verifies the token on every call; here it only names the user.
func userIDFromToken(token string, logger *zap.Logger) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		logger.Debug("token is not a readable JWT", zap.Error(err))
		return ""
	}
	for _, key := range []string{"userId", "id", "_id", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func isSessionKey(key string) bool {
	for _, k := range storage.SessionKeys {
		if k == key {
			return true
		}
	}
	return false
}
