package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

type SourceKind string

const (
	SourceCart   SourceKind = "cart"
	SourceBuyNow SourceKind = "buyNow"
)

// Source says what is being bought: the whole cart or a single item.
type Source interface {
	Kind() SourceKind
	isSource()
}

// CartSource checks out the signed-in user's cart.
type CartSource struct{}

func (CartSource) Kind() SourceKind { return SourceCart }
func (CartSource) isSource()        {}

// BuyNowSource checks out one product without touching the cart.
type BuyNowSource struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Color    string         `json:"color,omitempty"`
	Size     string         `json:"size,omitempty"`
}

func (BuyNowSource) Kind() SourceKind { return SourceBuyNow }
func (BuyNowSource) isSource()        {}

// Variant describes the chosen color and size, e.g. "Red / M".
func (b BuyNowSource) Variant() string {
	var parts []string
	for _, p := range []string{b.Color, b.Size} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

func (b BuyNowSource) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(b.Product.Price).Mul(decimal.NewFromInt(int64(b.Quantity)))
}

func (b BuyNowSource) validate() error {
	if b.Product.ID == "" {
		return apperrors.Validation("productId", "Product is required")
	}
	if b.Quantity < 1 {
		return apperrors.Validation("quantity", "Quantity must be at least 1")
	}
	if b.Product.Price < 0 {
		return apperrors.Validation("price", "Product price is invalid")
	}
	return nil
}
