package checkout

import (
	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

// pickupPlaceholder fills address parts a pickup store does not have.
const pickupPlaceholder = "N/A"

// PayloadInput is everything an order payload is assembled from.
type PayloadInput struct {
	UserID   string
	Source   Source
	Cart     models.Cart
	Delivery DeliveryMethod
	Store    *models.Store
	Payment  PaymentMethod
	Address  Address
	Coupon   *models.Coupon
	Totals   Totals
}

// BuildOrderPayload assembles the body of POST /orders. For store pickup the
// shipping address comes from the store, keeping only the typed phone number.
func BuildOrderPayload(in PayloadInput) models.OrderPayload {
	payload := models.OrderPayload{
		UserID:          in.UserID,
		Items:           orderItems(in.Source, in.Cart),
		TotalPrice:      in.Totals.Total.InexactFloat64(),
		ShippingAddress: shippingAddress(in.Delivery, in.Store, in.Address),
		PaymentMethod:   in.Payment.WireValue(),
		DeliveryMethod:  in.Delivery.WireValue(),
		DeliveryFee:     in.Totals.DeliveryFee.InexactFloat64(),
		OrderTotal:      in.Totals.OrderTotal(),
	}
	if in.Delivery == DeliveryStore && in.Store != nil {
		store := *in.Store
		payload.SelectedStore = &store
	}
	if in.Coupon != nil && in.Totals.Discount.IsPositive() {
		payload.CouponCode = in.Coupon.CouponCode
	}
	return payload
}

func orderItems(source Source, cart models.Cart) []models.OrderItem {
	if buyNow, ok := source.(BuyNowSource); ok {
		return []models.OrderItem{{
			ProductID:   buyNow.Product.ID,
			ProductName: buyNow.Product.Name,
			Quantity:    buyNow.Quantity,
			Price:       buyNow.Product.Price,
			Variant:     buyNow.Variant(),
		}}
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice(),
		})
	}
	return items
}

func shippingAddress(delivery DeliveryMethod, store *models.Store, typed Address) models.ShippingAddress {
	if delivery == DeliveryStore && store != nil {
		return models.ShippingAddress{
			Phone:      typed.Phone,
			Street:     store.StoreLocation,
			City:       store.StoreLocation,
			State:      pickupPlaceholder,
			PostalCode: pickupPlaceholder,
			Country:    pickupPlaceholder,
		}
	}
	return models.ShippingAddress{
		Phone:      typed.Phone,
		Street:     typed.Street,
		City:       typed.City,
		State:      typed.State,
		PostalCode: typed.PostalCode,
		Country:    typed.Country,
	}
}
