package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/stores"
)

type CartController struct{}

func NewCartController() *CartController {
	return &CartController{}
}

type cartLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func cartBody(cart models.Cart) gin.H {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return gin.H{
		"items":       items,
		"totalAmount": cart.TotalAmount,
		"totalItems":  cart.TotalItems,
	}
}

// cartStore returns the session's cart or writes an error.
func cartStore(c *gin.Context) (*stores.CartStore, bool) {
	s, ok := currentSession(c)
	if !ok {
		return nil, false
	}
	return s.Cart, true
}

func (h *CartController) Get(c *gin.Context) {
	cart, ok := cartStore(c)
	if !ok {
		return
	}
	if err := cart.FetchCart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart.Cart()))
}

// Item reports whether a product is in the cart and in what quantity.
func (h *CartController) Item(c *gin.Context) {
	cart, ok := cartStore(c)
	if !ok {
		return
	}
	productID := c.Param("product_id")
	c.JSON(http.StatusOK, gin.H{
		"productId": productID,
		"inCart":    cart.IsInCart(productID),
		"quantity":  cart.GetItemQuantity(productID),
	})
}

func (h *CartController) Add(c *gin.Context) {
	cart, ok := cartStore(c)
	if !ok {
		return
	}
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := cart.AddToCart(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart.Cart()))
}

func (h *CartController) Update(c *gin.Context) {
	cart, ok := cartStore(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	if err := cart.UpdateQuantity(c.Request.Context(), c.Param("product_id"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart.Cart()))
}

func (h *CartController) Remove(c *gin.Context) {
	cart, ok := cartStore(c)
	if !ok {
		return
	}
	if err := cart.RemoveFromCart(c.Request.Context(), c.Param("product_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart.Cart()))
}

func (h *CartController) Clear(c *gin.Context) {
	cart, ok := cartStore(c)
	if !ok {
		return
	}
	if err := cart.ClearCart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(cart.Cart()))
}
