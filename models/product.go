package models

import (
	"bytes"
	"encoding/json"
)

type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	OfferPrice  float64  `json:"offerPrice,omitempty"`
	Quantity    int      `json:"quantity,omitempty"`
	Images      []string `json:"images,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ProductRef is a product reference that the backend sends either as a bare id
// or as a populated product document.
type ProductRef struct {
	Product
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	return json.Unmarshal(data, &r.Product)
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Product)
}
