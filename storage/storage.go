package storage

import "context"

// Persisted session keys.
const (
	KeyIsLoggedIn = "isLoggedIn"
	KeyUserEmail  = "userEmail"
	KeyAuthToken  = "authToken"
	KeyUser       = "user"
)

// SessionKeys lists every key the auth layer persists.
var SessionKeys = []string{KeyIsLoggedIn, KeyUserEmail, KeyAuthToken, KeyUser}

// Change announces that a key of a session was written or removed.
type Change struct {
	SessionID string `json:"sessionId"`
	Key       string `json:"key"`
	Origin    string `json:"origin,omitempty"`
}

// Storage is session-scoped key/value state that outlives a single request.
// Get returns "" for a missing key.
type Storage interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Remove(ctx context.Context, sessionID string, keys ...string) error
	// Watch delivers changes made through any Storage sharing the backend
	// until ctx is cancelled.
	Watch(ctx context.Context) (<-chan Change, error)
}
