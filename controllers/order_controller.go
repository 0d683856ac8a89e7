package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/services"
)

type OrderController struct {
	orders services.OrderService
}

func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type cancelRequest struct {
	Reason string `json:"cancellationReason"`
}

func (h *OrderController) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderController) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderController) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderController) Receipt(c *gin.Context) {
	receipt, err := h.orders.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// Slip serves the printable order slip as HTML.
func (h *OrderController) Slip(c *gin.Context) {
	receipt, err := h.orders.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := services.RenderSlip(&buf, *receipt); err != nil {
		respondError(c, apperrors.Internal("Could not render the order slip", err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
