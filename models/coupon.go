package models

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	ID             string  `json:"_id,omitempty"`
	CouponCode     string  `json:"couponCode"`
	DiscountType   string  `json:"discountType"`
	DiscountAmount float64 `json:"discountAmount"`
}
