package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

var (
	homeDeliveryFee = decimal.NewFromInt(150)
	storePickupFee  = decimal.NewFromInt(100)
	hundred         = decimal.NewFromInt(100)
)

// DeliveryFeeFor is a flat fee per method; no method means no fee.
func DeliveryFeeFor(method DeliveryMethod) decimal.Decimal {
	switch method {
	case DeliveryHome:
		return homeDeliveryFee
	case DeliveryStore:
		return storePickupFee
	default:
		return decimal.Zero
	}
}

// CouponDiscount is the display discount of coupon on subtotal, never more
// than the subtotal and never negative.
func CouponDiscount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	amount := decimal.NewFromFloat(coupon.DiscountAmount)
	var discount decimal.Decimal
	switch strings.ToLower(coupon.DiscountType) {
	case models.DiscountPercentage, "percent":
		discount = subtotal.Mul(amount).Div(hundred).Round(2)
	case models.DiscountFixed, "flat", "amount":
		discount = amount
	default:
		return decimal.Zero
	}
	return clamp(discount, subtotal)
}

// Totals is the money breakdown of a checkout.
type Totals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// ComputeTotals returns subtotal - discount + fee with the discount clamped to the subtotal.
func ComputeTotals(subtotal, discount decimal.Decimal, method DeliveryMethod) Totals {
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	discount = clamp(discount, subtotal)
	fee := DeliveryFeeFor(method)
	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       subtotal.Sub(discount).Add(fee),
	}
}

// OrderTotal converts to the wire representation.
func (t Totals) OrderTotal() models.OrderTotal {
	return models.OrderTotal{
		Subtotal:    t.Subtotal.InexactFloat64(),
		Discount:    t.Discount.InexactFloat64(),
		DeliveryFee: t.DeliveryFee.InexactFloat64(),
		Total:       t.Total.InexactFloat64(),
	}
}

func clamp(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}
