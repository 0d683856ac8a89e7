package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestDeliveryFeeFor(t *testing.T) {
	assert.True(t, DeliveryFeeFor(DeliveryHome).Equal(dec(150)))
	assert.True(t, DeliveryFeeFor(DeliveryStore).Equal(dec(100)))
	assert.True(t, DeliveryFeeFor(DeliveryUnset).IsZero())
}

func TestComputeTotals_TotalIsSubtotalMinusDiscountPlusFee(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		discount float64
		method   DeliveryMethod
		want     Totals
	}{
		{"home no discount", 1000, 0, DeliveryHome, Totals{dec(1000), dec(0), dec(150), dec(1150)}},
		{"store with discount", 2250, 250, DeliveryStore, Totals{dec(2250), dec(250), dec(100), dec(2100)}},
		{"no delivery chosen", 500, 50, DeliveryUnset, Totals{dec(500), dec(50), dec(0), dec(450)}},
		{"discount clamped to subtotal", 100, 150, DeliveryHome, Totals{dec(100), dec(100), dec(150), dec(150)}},
		{"negative discount ignored", 100, -20, DeliveryStore, Totals{dec(100), dec(0), dec(100), dec(200)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(dec(tt.subtotal), dec(tt.discount), tt.method)
			assert.True(t, tt.want.Subtotal.Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, tt.want.Discount.Equal(got.Discount), "discount %s", got.Discount)
			assert.True(t, tt.want.DeliveryFee.Equal(got.DeliveryFee), "fee %s", got.DeliveryFee)
			assert.True(t, tt.want.Total.Equal(got.Total), "total %s", got.Total)

			assert.True(t, got.Total.Equal(got.Subtotal.Sub(got.Discount).Add(got.DeliveryFee)))
			assert.True(t, got.Discount.LessThanOrEqual(got.Subtotal))
		})
	}
}

func TestCouponDiscount(t *testing.T) {
	twentyOff := &models.Coupon{CouponCode: "DASHAIN20", DiscountType: models.DiscountPercentage, DiscountAmount: 20}
	oneFiftyOff := &models.Coupon{CouponCode: "FLAT150", DiscountType: models.DiscountFixed, DiscountAmount: 150}

	assert.True(t, CouponDiscount(twentyOff, dec(1000)).Equal(dec(200)))
	assert.True(t, CouponDiscount(oneFiftyOff, dec(100)).Equal(dec(100)), "fixed discount never exceeds subtotal")
	assert.True(t, CouponDiscount(oneFiftyOff, dec(1000)).Equal(dec(150)))
	assert.True(t, CouponDiscount(nil, dec(1000)).IsZero())
	assert.True(t, CouponDiscount(&models.Coupon{DiscountType: "mystery", DiscountAmount: 10}, dec(1000)).IsZero())
	assert.True(t, CouponDiscount(&models.Coupon{DiscountType: "PERCENTAGE", DiscountAmount: 150}, dec(80)).Equal(dec(80)))
}

func TestTotals_OrderTotal(t *testing.T) {
	got := ComputeTotals(dec(999.5), dec(99.95), DeliveryHome).OrderTotal()
	assert.Equal(t, models.OrderTotal{Subtotal: 999.5, Discount: 99.95, DeliveryFee: 150, Total: 1049.55}, got)
}
