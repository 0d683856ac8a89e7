package services

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

// ReceiptLine is one item row of a receipt.
type ReceiptLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Variant   string  `json:"variant,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// Receipt is the read-only view of a placed order shared by the receipt
// screen and the printable order slip.
type Receipt struct {
	OrderID         string                 `json:"orderId"`
	OrderDate       time.Time              `json:"orderDate"`
	Status          string                 `json:"status"`
	StatusLabel     string                 `json:"statusLabel"`
	PaymentLabel    string                 `json:"paymentLabel"`
	DeliveryLabel   string                 `json:"deliveryLabel"`
	Lines           []ReceiptLine          `json:"lines"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PickupStore     *models.Store          `json:"pickupStore,omitempty"`
	CouponCode      string                 `json:"couponCode,omitempty"`
	Totals          models.OrderTotal      `json:"totals"`
	Cancellable     bool                   `json:"cancellable"`
	CancelReason    string                 `json:"cancellationReason,omitempty"`
}

var (
	paymentLabels = map[string]string{
		models.PaymentCOD:     "Cash on Delivery",
		models.PaymentPrepaid: "Prepaid (Online)",
	}
	deliveryLabels = map[string]string{
		models.DeliveryHome:  "Home Delivery",
		models.DeliveryStore: "Store Pickup",
	}
)

func NewReceipt(order models.Order) Receipt {
	r := Receipt{
		OrderID:         order.ID,
		OrderDate:       order.OrderDate,
		Status:          order.Status(),
		StatusLabel:     statusLabel(order.Status()),
		PaymentLabel:    labelOr(paymentLabels, order.PaymentMethod),
		DeliveryLabel:   labelOr(deliveryLabels, order.DeliveryMethod),
		Lines:           make([]ReceiptLine, 0, len(order.Items)),
		ShippingAddress: order.ShippingAddress,
		CouponCode:      order.CouponCode,
		Totals:          order.OrderTotal,
		Cancellable:     order.Cancellable(),
		CancelReason:    order.CancellationReason,
	}
	if order.DeliveryMethod == models.DeliveryStore {
		r.PickupStore = order.SelectedStore
	}

	subtotal := decimal.Zero
	for _, item := range order.Items {
		lineTotal := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		r.Lines = append(r.Lines, ReceiptLine{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			LineTotal: lineTotal.InexactFloat64(),
		})
	}

	// orders placed before orderTotal existed only carry totalPrice
	if r.Totals == (models.OrderTotal{}) {
		r.Totals = models.OrderTotal{
			Subtotal:    subtotal.InexactFloat64(),
			DeliveryFee: order.DeliveryFee,
			Total:       order.TotalPrice,
		}
	}
	return r
}

func statusLabel(status string) string {
	return strings.ToUpper(status[:1]) + status[1:]
}

func labelOr(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

//go:embed templates/order_slip.html
var orderSlipHTML string

var orderSlipTemplate = template.Must(template.New("order_slip").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("Rs. %s", decimal.NewFromFloat(v).StringFixed(2)) },
	"date":  func(t time.Time) string { return t.Format("02 Jan 2006") },
}).Parse(orderSlipHTML))

// RenderSlip writes the printable order slip of receipt to w.
func RenderSlip(w io.Writer, receipt Receipt) error {
	return orderSlipTemplate.Execute(w, receipt)
}
