package models

// Store is a pickup location.
type Store struct {
	ID                string `json:"_id"`
	StoreName         string `json:"storeName"`
	StoreLocation     string `json:"storeLocation"`
	StoreManagerName  string `json:"storeManagerName"`
	StoreManagerEmail string `json:"storeManagerEmail,omitempty"`
	StorePhoneNumber  string `json:"storePhoneNumber"`
	StoreBadge        string `json:"storeBadge,omitempty"`
	IsActive          bool   `json:"isActive"`
}
