package models

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Wire values for the order payload.
const (
	PaymentCOD     = "cod"
	PaymentPrepaid = "prepaid"

	DeliveryHome  = "homeDelivery"
	DeliveryStore = "storePickup"
)

type OrderItem struct {
	ProductID   string  `json:"productID"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Variant     string  `json:"variant,omitempty"`
}

type ShippingAddress struct {
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderTotal struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

// OrderPayload is the body of POST /orders.
type OrderPayload struct {
	UserID          string          `json:"userID"`
	Items           []OrderItem     `json:"items"`
	TotalPrice      float64         `json:"totalPrice"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	DeliveryMethod  string          `json:"deliveryMethod"`
	DeliveryFee     float64         `json:"deliveryFee"`
	SelectedStore   *Store          `json:"selectedStore"`
	CouponCode      string          `json:"couponCode,omitempty"`
	OrderTotal      OrderTotal      `json:"orderTotal"`
}

type Order struct {
	ID                 string          `json:"_id"`
	UserID             string          `json:"userID"`
	Items              []OrderItem     `json:"items"`
	TotalPrice         float64         `json:"totalPrice"`
	ShippingAddress    ShippingAddress `json:"shippingAddress"`
	PaymentMethod      string          `json:"paymentMethod"`
	DeliveryMethod     string          `json:"deliveryMethod"`
	DeliveryFee        float64         `json:"deliveryFee"`
	SelectedStore      *Store          `json:"selectedStore,omitempty"`
	CouponCode         string          `json:"couponCode,omitempty"`
	OrderTotal         OrderTotal      `json:"orderTotal"`
	OrderStatus        string          `json:"orderStatus"`
	OrderDate          time.Time       `json:"orderDate"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
}

// Status is the order's status, with a missing one read as pending.
func (o Order) Status() string {
	if o.OrderStatus == "" {
		return OrderStatusPending
	}
	return o.OrderStatus
}

// Cancellable reports whether the shopper may still cancel the order.
func (o Order) Cancellable() bool {
	status := o.Status()
	return status == OrderStatusPending || status == OrderStatusProcessing
}

// OrderStatusUpdate is the body of PATCH /orders/:id/status.
type OrderStatusUpdate struct {
	OrderStatus        string    `json:"orderStatus"`
	CancellationReason string    `json:"cancellationReason,omitempty"`
	CancelledAt        time.Time `json:"cancelledAt"`
}

// OrderPlacedEvent is published after a successful checkout.
type OrderPlacedEvent struct {
	EventType      string    `json:"eventType"`
	OrderID        string    `json:"orderId"`
	UserID         string    `json:"userId"`
	Source         string    `json:"source"`
	PaymentMethod  string    `json:"paymentMethod"`
	DeliveryMethod string    `json:"deliveryMethod"`
	Total          float64   `json:"total"`
	ItemCount      int       `json:"itemCount"`
	Timestamp      time.Time `json:"timestamp"`
}
