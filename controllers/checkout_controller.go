package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/checkout"
	"github.com/surajacharya12/E-commerce-web-sub000/logger"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	awspkg "github.com/surajacharya12/E-commerce-web-sub000/pkg/aws"
	"github.com/surajacharya12/E-commerce-web-sub000/session"
	"go.uber.org/zap"
)

// CheckoutBackend is what checkout needs from the REST backend, plus the
// product lookup used by buy-now.
type CheckoutBackend interface {
	checkout.Backend
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

type CheckoutController struct {
	registry *checkout.Registry
	backend  CheckoutBackend
	events   awspkg.SNSPublisher
	metrics  awspkg.MetricsRecorder
	logger   *zap.Logger
	config   checkout.Config
}

func NewCheckoutController(registry *checkout.Registry, backend CheckoutBackend, events awspkg.SNSPublisher, metrics awspkg.MetricsRecorder, logger *zap.Logger, config checkout.Config) *CheckoutController {
	return &CheckoutController{
		registry: registry,
		backend:  backend,
		events:   events,
		metrics:  metrics,
		logger:   logger,
		config:   config,
	}
}

type buyNowRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type deliveryRequest struct {
	DeliveryMethod string `json:"deliveryMethod"`
}

type storeRequest struct {
	StoreID string `json:"storeId"`
}

type paymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type couponRequest struct {
	CouponCode string `json:"couponCode"`
}

// submitRequest carries either payment form. Card fields are ignored for COD.
type submitRequest struct {
	checkout.Address
	checkout.Card
}

func (h *CheckoutController) deps(s *session.Session) checkout.Deps {
	return checkout.Deps{
		Backend:  h.backend,
		Identity: s.Auth,
		Cart:     s.Cart,
		Events:   h.events,
		Metrics:  h.metrics,
		Logger:   h.logger.With(zap.String("session_id", s.ID)),
		Config:   h.config,
	}
}

func (h *CheckoutController) start(c *gin.Context, s *session.Session, source checkout.Source) {
	w, err := checkout.NewWizard(source, h.deps(s))
	if err != nil {
		respondError(c, err)
		return
	}
	h.registry.Start(s.ID, w)
	c.JSON(http.StatusCreated, w.State())
}

// StartCart opens a checkout of the signed-in user's cart.
func (h *CheckoutController) StartCart(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	if err := s.Cart.FetchCart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	if s.Cart.Cart().IsEmpty() {
		respondError(c, apperrors.Conflict("Your cart is empty"))
		return
	}
	h.start(c, s, checkout.CartSource{})
}

// StartBuyNow opens a checkout of a single product.
func (h *CheckoutController) StartBuyNow(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	var req buyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		respondError(c, apperrors.Validation("productId", "Product is required"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.backend.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	if product == nil || product.ID == "" {
		respondError(c, apperrors.NotFound("Product not found"))
		return
	}
	if err := checkVariant("color", req.Color, product.Colors); err != nil {
		respondError(c, err)
		return
	}
	if err := checkVariant("size", req.Size, product.Sizes); err != nil {
		respondError(c, err)
		return
	}

	h.start(c, s, checkout.BuyNowSource{
		Product:  *product,
		Quantity: req.Quantity,
		Color:    strings.TrimSpace(req.Color),
		Size:     strings.TrimSpace(req.Size),
	})
}

func checkVariant(field, value string, options []string) error {
	value = strings.TrimSpace(value)
	if value == "" || len(options) == 0 {
		return nil
	}
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return nil
		}
	}
	return apperrors.Validation(field, "That "+field+" is not available for this product")
}

// wizard returns the session's open checkout, bound to the session's live
// stores, or writes a 404.
func (h *CheckoutController) wizard(c *gin.Context) (*checkout.Wizard, bool) {
	s, ok := currentSession(c)
	if !ok {
		return nil, false
	}
	w, ok := h.registry.Get(s.ID)
	if !ok {
		respondError(c, apperrors.NotFound("No checkout in progress"))
		return nil, false
	}
	w.Attach(s.Auth, s.Cart)
	return w, true
}

func (h *CheckoutController) State(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.State())
}

func (h *CheckoutController) Cancel(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	h.registry.Discard(s.ID)
	c.Status(http.StatusNoContent)
}

// SelectDelivery answers with the state even when loading pickup stores
// failed, so the shopper sees the retry prompt.
func (h *CheckoutController) SelectDelivery(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	method, err := checkout.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := w.SelectDelivery(c.Request.Context(), method); err != nil {
		if method != checkout.DeliveryStore || apperrors.Is(err, apperrors.KindConflict) {
			respondError(c, err)
			return
		}
		logger.Warn(c, "pickup stores unavailable", zap.Error(err))
	}
	c.JSON(http.StatusOK, w.State())
}

func (h *CheckoutController) RetryStores(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if err := w.RetryStores(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w.State())
}

// Stores lists the pickup stores, filtered by ?q= on name or location.
func (h *CheckoutController) Stores(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	stores := w.FilterStores(c.Query("q"))
	if stores == nil {
		stores = []models.Store{}
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func (h *CheckoutController) SelectStore(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req storeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	if err := w.SelectStore(strings.TrimSpace(req.StoreID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w.State())
}

func (h *CheckoutController) SelectPayment(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	method, err := checkout.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := w.SelectPayment(method); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w.State())
}

func (h *CheckoutController) Back(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if err := w.Back(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w.State())
}

func (h *CheckoutController) ApplyCoupon(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	totals, err := w.ApplyCoupon(c.Request.Context(), req.CouponCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals, "coupon": w.State().Coupon})
}

func (h *CheckoutController) RemoveCoupon(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if err := w.RemoveCoupon(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w.State())
}

// Submit places the order with the form matching the chosen payment method.
func (h *CheckoutController) Submit(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	var form checkout.Form
	switch w.PaymentMethod() {
	case checkout.PaymentCOD:
		form = checkout.CODForm{Address: req.Address}
	case checkout.PaymentOnline:
		form = checkout.OnlineForm{Address: req.Address, Card: req.Card}
	default:
		respondError(c, apperrors.Conflict("Choose a payment method first"))
		return
	}

	result, err := w.Submit(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
