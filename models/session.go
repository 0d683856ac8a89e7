package models

// User is the serialized user object the backend returns on login.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Session is the storefront's view of who is signed in.
type Session struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	UserID     string `json:"userId,omitempty"`
	Email      string `json:"email,omitempty"`
	Token      string `json:"-"`
	User       *User  `json:"user,omitempty"`
}

// SameIdentity reports whether two sessions describe the same signed-in state.
func (s Session) SameIdentity(o Session) bool {
	return s.IsLoggedIn == o.IsLoggedIn && s.UserID == o.UserID && s.Email == o.Email && s.Token == o.Token
}
