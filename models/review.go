package models

import "time"

type Rating struct {
	ID        string    `json:"_id,omitempty"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// RatingSummary is the reviews screen view for one product.
type RatingSummary struct {
	ProductID string   `json:"productId"`
	Ratings   []Rating `json:"ratings"`
	Count     int      `json:"count"`
	Average   float64  `json:"average"`
}
