package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/clients"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	awspkg "github.com/surajacharya12/E-commerce-web-sub000/pkg/aws"
	"go.uber.org/zap"
)

type Step string

const (
	StepDeliveryMethod Step = "DELIVERY_METHOD"
	StepPaymentMethod  Step = "PAYMENT_METHOD"
	StepPaymentForm    Step = "PAYMENT_FORM"
)

// ReceiptPathPrefix is where a placed order is shown.
const ReceiptPathPrefix = "/receipt/"

// unconfirmedOrderMessage is shown when the backend accepts an order but returns no id.
const unconfirmedOrderMessage = "The store did not confirm your order. Please check your orders before trying again."

// Backend is the part of the REST backend the wizard calls.
type Backend interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	CheckCoupon(ctx context.Context, code string) (*models.Coupon, error)
	CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error)
}

// Identity is the signed-in shopper.
type Identity interface {
	IsLoggedIn() bool
	UserID() string
	GetAuthToken(ctx context.Context) (string, error)
}

// CartHandle is the shopper's cart.
type CartHandle interface {
	Cart() models.Cart
	ClearCart(ctx context.Context) error
}

type Config struct {
	// OnlinePaymentDelay simulates payment processing before an online order is placed.
	OnlinePaymentDelay time.Duration
	// SuccessCountdown is how long the success screen shows before the receipt.
	SuccessCountdown    time.Duration
	OrderEventsTopicARN string
}

// Deps are the collaborators of a wizard. Events and Metrics are optional.
type Deps struct {
	Backend  Backend
	Identity Identity
	Cart     CartHandle
	Events   awspkg.SNSPublisher
	Metrics  awspkg.MetricsRecorder
	Logger   *zap.Logger
	Config   Config
}

// Result is what a successful submission hands back to the shopper.
type Result struct {
	OrderID   string        `json:"orderId"`
	Order     *models.Order `json:"order"`
	Redirect  string        `json:"redirect"`
	Countdown int           `json:"countdown"`
}

// State is a read-only view of a wizard.
type State struct {
	Step           Step              `json:"step"`
	Source         SourceKind        `json:"source,omitempty"`
	BuyNow         *BuyNowSource     `json:"buyNow,omitempty"`
	DeliveryMethod DeliveryMethod    `json:"deliveryMethod,omitempty"`
	SelectedStore  *models.Store     `json:"selectedStore,omitempty"`
	PaymentMethod  PaymentMethod     `json:"paymentMethod,omitempty"`
	Stores         []models.Store    `json:"stores,omitempty"`
	StoresError    string            `json:"storesError,omitempty"`
	Coupon         *models.Coupon    `json:"coupon,omitempty"`
	Totals         models.OrderTotal `json:"totals"`
	Submitting     bool              `json:"submitting"`
	Result         *Result           `json:"result,omitempty"`
}

// Wizard walks one checkout from delivery method to a placed order.
// It is safe for concurrent use; backend calls run without holding the lock.
type Wizard struct {
	deps   Deps
	logger *zap.Logger

	mu         sync.Mutex
	source     Source
	step       Step
	delivery   DeliveryMethod
	store      *models.Store
	payment    PaymentMethod
	stores     []models.Store
	storesErr  error
	coupon     *models.Coupon
	submitting bool
	result     *Result
	placed     Totals
}

// NewWizard starts a checkout of source at StepDeliveryMethod.
func NewWizard(source Source, deps Deps) (*Wizard, error) {
	switch s := source.(type) {
	case CartSource:
		if deps.Cart == nil {
			return nil, apperrors.Internal("cart checkout needs a cart", nil)
		}
	case BuyNowSource:
		if err := s.validate(); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.Validation("source", "Unknown checkout source")
	}
	if deps.Backend == nil || deps.Identity == nil {
		return nil, apperrors.Internal("checkout is missing its backend or identity", nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Wizard{
		deps:   deps,
		logger: deps.Logger.With(zap.String("checkout_source", string(source.Kind()))),
		source: source,
		step:   StepDeliveryMethod,
	}, nil
}

// Attach points the wizard at the session's current identity and cart. The
// session may have been restored since the checkout started, leaving the
// previous handles orphaned.
func (w *Wizard) Attach(identity Identity, cart CartHandle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if identity != nil {
		w.deps.Identity = identity
	}
	if cart != nil {
		w.deps.Cart = cart
	}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) DeliveryMethod() DeliveryMethod {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.delivery
}

func (w *Wizard) SelectedStore() *models.Store {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.store == nil {
		return nil
	}
	s := *w.store
	return &s
}

func (w *Wizard) PaymentMethod() PaymentMethod {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.payment
}

// Source is nil once a buy-now order has been placed.
func (w *Wizard) Source() Source {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.source
}

// Stores returns the active stores of the last successful fetch.
func (w *Wizard) Stores() []models.Store {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Store(nil), w.stores...)
}

// FilterStores searches the fetched stores.
func (w *Wizard) FilterStores(query string) []models.Store {
	return FilterStores(w.Stores(), query)
}

// SelectDelivery picks HOME (advancing at once) or STORE (loading the store
// list and staying until a store is picked).
func (w *Wizard) SelectDelivery(ctx context.Context, method DeliveryMethod) error {
	w.mu.Lock()
	if err := w.expectLocked(StepDeliveryMethod); err != nil {
		w.mu.Unlock()
		return err
	}

	switch method {
	case DeliveryHome:
		w.delivery = DeliveryHome
		w.store = nil
		w.stores = nil
		w.storesErr = nil
		w.step = StepPaymentMethod
		w.mu.Unlock()
		return nil
	case DeliveryStore:
		w.delivery = DeliveryStore
		w.store = nil
		w.mu.Unlock()
		return w.loadStores(ctx)
	default:
		w.mu.Unlock()
		return apperrors.Validation("deliveryMethod", "Choose home delivery or store pickup")
	}
}

// RetryStores refetches the store list after a failed load.
func (w *Wizard) RetryStores(ctx context.Context) error {
	w.mu.Lock()
	if err := w.expectLocked(StepDeliveryMethod); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.delivery != DeliveryStore {
		w.mu.Unlock()
		return apperrors.Conflict("Choose store pickup first")
	}
	w.mu.Unlock()
	return w.loadStores(ctx)
}

func (w *Wizard) loadStores(ctx context.Context) error {
	stores, err := w.deps.Backend.ListStores(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	// the shopper moved on while the list was loading
	if w.step != StepDeliveryMethod || w.delivery != DeliveryStore {
		return nil
	}
	if err != nil {
		w.stores = nil
		w.storesErr = err
		w.logger.Warn("failed to load pickup stores", zap.Error(err))
		return err
	}
	w.stores = FilterStores(stores, "")
	w.storesErr = nil
	return nil
}

// SelectStore picks one of the fetched active stores and advances.
func (w *Wizard) SelectStore(storeID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expectLocked(StepDeliveryMethod); err != nil {
		return err
	}
	if w.delivery != DeliveryStore {
		return apperrors.Conflict("Choose store pickup first")
	}
	for _, s := range w.stores {
		if s.ID == storeID {
			store := s
			w.store = &store
			w.step = StepPaymentMethod
			return nil
		}
	}
	return apperrors.NotFound("That store is not available for pickup")
}

// SelectPayment picks COD or ONLINE and shows the matching form.
func (w *Wizard) SelectPayment(method PaymentMethod) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expectLocked(StepPaymentMethod); err != nil {
		return err
	}
	if method != PaymentCOD && method != PaymentOnline {
		return apperrors.Validation("paymentMethod", "Choose cash on delivery or online payment")
	}
	w.payment = method
	w.step = StepPaymentForm
	return nil
}

// Back steps one screen back. Leaving PAYMENT_METHOD resets every selection;
// leaving PAYMENT_FORM only drops the payment method. In DELIVERY_METHOD it
// closes an open store picker.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutableLocked(); err != nil {
		return err
	}
	switch w.step {
	case StepPaymentForm:
		w.payment = PaymentUnset
		w.step = StepPaymentMethod
	case StepPaymentMethod:
		w.resetSelectionsLocked()
		w.step = StepDeliveryMethod
	default:
		if w.delivery == DeliveryUnset {
			return apperrors.Conflict("Already at the first step")
		}
		w.resetSelectionsLocked()
	}
	return nil
}

// ApplyCoupon looks code up and uses it for the displayed discount.
func (w *Wizard) ApplyCoupon(ctx context.Context, code string) (models.OrderTotal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.OrderTotal{}, apperrors.Validation("couponCode", "Enter a coupon code")
	}

	w.mu.Lock()
	err := w.mutableLocked()
	w.mu.Unlock()
	if err != nil {
		return models.OrderTotal{}, err
	}

	coupon, err := w.deps.Backend.CheckCoupon(ctx, code)
	if err != nil {
		return models.OrderTotal{}, err
	}
	if coupon.CouponCode == "" {
		coupon.CouponCode = code
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// the order may have been submitted while the code was being checked
	if err := w.mutableLocked(); err != nil {
		return models.OrderTotal{}, err
	}
	w.coupon = coupon
	return w.totalsLocked(w.cartSnapshotLocked()).OrderTotal(), nil
}

func (w *Wizard) RemoveCoupon() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutableLocked(); err != nil {
		return err
	}
	w.coupon = nil
	return nil
}

// Totals is a pure function of the current selections.
func (w *Wizard) Totals() Totals {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result != nil {
		return w.placed
	}
	return w.totalsLocked(w.cartSnapshotLocked())
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := State{
		Step:           w.step,
		DeliveryMethod: w.delivery,
		PaymentMethod:  w.payment,
		Stores:         append([]models.Store(nil), w.stores...),
		Coupon:         w.coupon,
		Submitting:     w.submitting,
		Result:         w.result,
	}
	if w.source != nil {
		st.Source = w.source.Kind()
		if b, ok := w.source.(BuyNowSource); ok {
			st.BuyNow = &b
		}
	}
	if w.result != nil {
		st.Totals = w.placed.OrderTotal()
	} else {
		st.Totals = w.totalsLocked(w.cartSnapshotLocked()).OrderTotal()
	}
	if w.store != nil {
		s := *w.store
		st.SelectedStore = &s
	}
	if w.storesErr != nil {
		st.StoresError = apperrors.From(w.storesErr).Message
	}
	return st
}

// Submit validates form, places the order and, on success, clears the cart or
// drops the buy-now item. On failure nothing changes and the shopper may retry.
func (w *Wizard) Submit(ctx context.Context, form Form) (*Result, error) {
	w.mu.Lock()
	payload, sourceKind, err := w.prepareLocked(form)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	identity, cart := w.deps.Identity, w.deps.Cart
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	if form.Method() == PaymentOnline {
		if err := sleepCtx(ctx, w.deps.Config.OnlinePaymentDelay); err != nil {
			return nil, apperrors.Network(fmt.Errorf("payment processing interrupted: %w", err))
		}
	}

	token, err := identity.GetAuthToken(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to read session", err)
	}

	order, err := w.deps.Backend.CreateOrder(clients.WithAuthToken(ctx, token), payload)
	if err != nil {
		w.logger.Warn("order submission failed",
			zap.String("user_id", payload.UserID),
			zap.String("payment_method", payload.PaymentMethod),
			zap.Error(err),
		)
		w.recordMetric(awspkg.MetricOrdersFailed, payload, sourceKind)
		return nil, err
	}
	if order == nil || order.ID == "" {
		w.logger.Error("order accepted without an id", zap.String("user_id", payload.UserID))
		w.recordMetric(awspkg.MetricOrdersFailed, payload, sourceKind)
		return nil, apperrors.Business(http.StatusBadGateway, unconfirmedOrderMessage)
	}

	if sourceKind == SourceCart {
		if err := cart.ClearCart(ctx); err != nil {
			// the order exists; a stale cart is only cosmetic
			w.logger.Warn("order placed but cart was not cleared", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	result := &Result{
		OrderID:   order.ID,
		Order:     order,
		Redirect:  ReceiptPathPrefix + order.ID,
		Countdown: int(w.deps.Config.SuccessCountdown / time.Second),
	}

	w.mu.Lock()
	w.result = result
	w.placed = totalsFromOrder(payload.OrderTotal)
	if sourceKind == SourceBuyNow {
		w.source = nil
	}
	w.mu.Unlock()

	w.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", payload.UserID),
		zap.Float64("total", payload.TotalPrice),
	)
	w.publishOrderPlaced(ctx, order, payload, sourceKind)
	w.recordMetric(awspkg.MetricOrdersCreated, payload, sourceKind)
	if sourceKind == SourceCart {
		w.recordMetric(awspkg.MetricCartCheckouts, payload, sourceKind)
	} else {
		w.recordMetric(awspkg.MetricBuyNowCheckouts, payload, sourceKind)
	}
	return result, nil
}

// Result is set once the order has been placed.
func (w *Wizard) Result() *Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *Wizard) prepareLocked(form Form) (models.OrderPayload, SourceKind, error) {
	if err := w.expectLocked(StepPaymentForm); err != nil {
		return models.OrderPayload{}, "", err
	}
	if form == nil || form.Method() != w.payment {
		return models.OrderPayload{}, "", apperrors.Validation("paymentMethod", "The form does not match the selected payment method")
	}
	if !w.deps.Identity.IsLoggedIn() || w.deps.Identity.UserID() == "" {
		return models.OrderPayload{}, "", apperrors.Unauthorized("Please sign in to place your order")
	}
	if w.delivery == DeliveryStore && w.store == nil {
		return models.OrderPayload{}, "", apperrors.Validation("store", "Choose a pickup store")
	}
	if err := form.Validate(w.delivery); err != nil {
		return models.OrderPayload{}, "", err
	}

	cart := w.cartSnapshotLocked()
	if w.source.Kind() == SourceCart && cart.IsEmpty() {
		return models.OrderPayload{}, "", apperrors.Validation("cart", "Your cart is empty")
	}

	totals := w.totalsLocked(cart)
	return BuildOrderPayload(PayloadInput{
		UserID:   w.deps.Identity.UserID(),
		Source:   w.source,
		Cart:     cart,
		Delivery: w.delivery,
		Store:    w.store,
		Payment:  w.payment,
		Address:  form.ShippingFields(),
		Coupon:   w.coupon,
		Totals:   totals,
	}), w.source.Kind(), nil
}

func (w *Wizard) expectLocked(step Step) error {
	if err := w.mutableLocked(); err != nil {
		return err
	}
	if w.step != step {
		return apperrors.Conflict(fmt.Sprintf("Checkout is at %s, not %s", w.step, step))
	}
	return nil
}

func (w *Wizard) mutableLocked() error {
	if w.result != nil {
		return apperrors.Conflict("This order has already been placed")
	}
	if w.submitting {
		return apperrors.Conflict("Your order is being placed")
	}
	return nil
}

func (w *Wizard) resetSelectionsLocked() {
	w.delivery = DeliveryUnset
	w.store = nil
	w.payment = PaymentUnset
	w.stores = nil
	w.storesErr = nil
}

func (w *Wizard) cartSnapshotLocked() models.Cart {
	if w.source == nil || w.source.Kind() != SourceCart {
		return models.Cart{}
	}
	return w.deps.Cart.Cart()
}

func (w *Wizard) totalsLocked(cart models.Cart) Totals {
	var subtotal decimal.Decimal
	switch s := w.source.(type) {
	case BuyNowSource:
		subtotal = s.Subtotal()
	case CartSource:
		subtotal = decimal.NewFromFloat(cart.TotalAmount)
	}
	return ComputeTotals(subtotal, CouponDiscount(w.coupon, subtotal), w.delivery)
}

func (w *Wizard) publishOrderPlaced(ctx context.Context, order *models.Order, payload models.OrderPayload, kind SourceKind) {
	if w.deps.Events == nil || w.deps.Config.OrderEventsTopicARN == "" {
		return
	}

	event := models.OrderPlacedEvent{
		EventType:      "order_placed",
		OrderID:        order.ID,
		UserID:         payload.UserID,
		Source:         string(kind),
		PaymentMethod:  payload.PaymentMethod,
		DeliveryMethod: payload.DeliveryMethod,
		Total:          payload.TotalPrice,
		ItemCount:      len(payload.Items),
		Timestamp:      time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		w.logger.Error("failed to marshal order_placed event", zap.Error(err))
		return
	}
	if err := w.deps.Events.Publish(ctx, w.deps.Config.OrderEventsTopicARN, body); err != nil {
		w.logger.Warn("failed to publish order_placed event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (w *Wizard) recordMetric(name string, payload models.OrderPayload, kind SourceKind) {
	if w.deps.Metrics == nil || !w.deps.Metrics.IsEnabled() {
		return
	}
	dims := map[string]string{
		"Source":         string(kind),
		"PaymentMethod":  payload.PaymentMethod,
		"DeliveryMethod": payload.DeliveryMethod,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = w.deps.Metrics.RecordCount(ctx, name, dims)
	}()
}

func totalsFromOrder(t models.OrderTotal) Totals {
	return Totals{
		Subtotal:    decimal.NewFromFloat(t.Subtotal),
		Discount:    decimal.NewFromFloat(t.Discount),
		DeliveryFee: decimal.NewFromFloat(t.DeliveryFee),
		Total:       decimal.NewFromFloat(t.Total),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
