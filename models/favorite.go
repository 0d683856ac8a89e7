package models

type Favorite struct {
	ID      string     `json:"_id,omitempty"`
	UserID  string     `json:"userId"`
	Product ProductRef `json:"productId"`
}
