package models

// Cart mirrors the backend's cart document for one user.
type Cart struct {
	UserID      string     `json:"userId,omitempty"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	TotalItems  int        `json:"totalItems"`
}

type CartItem struct {
	Product  ProductRef `json:"productId"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
}

// UnitPrice falls back to the populated product price when the line has none.
func (i CartItem) UnitPrice() float64 {
	if i.Price > 0 {
		return i.Price
	}
	return i.Product.Price
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the line for productID, if any.
func (c Cart) Find(productID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// CartMutation is the body of the add/update/remove cart endpoints.
type CartMutation struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}
