package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderPlacer is what checkout needs from order storage. Satisfied by
// repository.OrderRepository.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, o *model.Order, couponID *int64) (int64, error)
}

// PaymentRecorder records payment attempts. Satisfied by
// repository.PaymentRepository.
type PaymentRecorder interface {
	CreateCardPending(ctx context.Context, orderID int64, amount decimal.Decimal, provider, externalRef string, payload []byte) (int64, error)
	CreateWalletPending(ctx context.Context, orderID int64, amount decimal.Decimal, walletPhone string) (int64, error)
}

type CheckoutRequest struct {
	CouponCode    string         `json:"couponcode,omitempty"`
	CustomerNotes string         `json:"customernotes,omitempty"`
	Payment       PaymentDetails `json:"payment"`
}

type CheckoutResult struct {
	OrderID   int64                `json:"orderid"`
	Subtotal  decimal.Decimal      `json:"subtotal"`
	Discount  decimal.Decimal      `json:"discount"`
	Total     decimal.Decimal      `json:"total"`
	Intent    *model.PaymentIntent `json:"intent,omitempty"`
	ChangeDue *decimal.Decimal     `json:"changedue,omitempty"`
}

// CheckoutService drives the checkout sequence strictly step by step:
// validate details, re-resolve the coupon against the current subtotal,
// snapshot the cart into an order, then run the per-method payment step. A
// failure at any step stops the sequence; no later step runs.
type CheckoutService struct {
	Cart     *CartService
	Coupons  *CouponService
	Orders   OrderPlacer
	Payments PaymentRecorder
	Intents  IntentMinter
}

func NewCheckoutService(
	cart *CartService,
	coupons *CouponService,
	orders OrderPlacer,
	payments PaymentRecorder,
	intents IntentMinter,
) *CheckoutService {
	return &CheckoutService{
		Cart:     cart,
		Coupons:  coupons,
		Orders:   orders,
		Payments: payments,
		Intents:  intents,
	}
}

// snapshotItems freezes the cart lines into order items. Prices are copied,
// not referenced: later catalog changes cannot touch a placed order.
func snapshotItems(items []model.CartItem) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		oi := model.OrderItem{
			ProductID:    it.ProductID,
			Name:         it.Name,
			UnitPrice:    it.UnitPrice,
			OptionsPrice: it.OptionsPrice(),
			Quantity:     it.Quantity,
		}
		for _, opt := range it.SelectedOptions {
			oi.Options = append(oi.Options, model.OrderItemOption{
				OptionID:        opt.OptionID,
				Name:            opt.Name,
				AdditionalPrice: opt.AdditionalPrice,
			})
		}
		out = append(out, oi)
	}
	return out
}

// Checkout reconciles the cart, coupon and payment details into a placed
// order. On a card order the result may carry a non-nil OrderID together
// with a non-nil error: the order was created but minting the payment intent
// failed. The caller surfaces the error and the customer retries payment
// against the same order id, never through a second checkout.
func (s *CheckoutService) Checkout(ctx context.Context, customer *model.Customer, req CheckoutRequest) (*CheckoutResult, error) {
	cart := s.Cart.Get(customer.CustomerID)
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	subtotal := cart.Subtotal

	// Coupon is recomputed here against the live subtotal; whatever the
	// client previewed earlier is irrelevant.
	discount := decimal.Zero
	var couponID *int64
	var couponCode *string
	if req.CouponCode != "" {
		coupon, res, err := s.Coupons.Resolve(ctx, req.CouponCode, subtotal, customer.CustomerID)
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return nil, errors.New(res.Message)
		}
		discount = res.Discount
		couponID = &coupon.CouponID
		couponCode = &coupon.Code
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	if err := ValidateDetails(req.Payment, total); err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:      customer.CustomerID,
		Items:           snapshotItems(cart.Items),
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           total,
		CouponCode:      couponCode,
		DeliveryAddress: req.Payment.DeliveryAddress,
		PaymentMethod:   req.Payment.Method,
		PaymentStatus:   model.PaymentPending,
		OrderStatus:     model.StatusPending,
		CreatedAt:       time.Now(),
	}
	if req.CustomerNotes != "" {
		order.CustomerNotes = &req.CustomerNotes
	}
	if req.Payment.Method == model.MethodCash {
		received := req.Payment.CashReceived
		order.CashReceivedAmount = &received
	}

	switch req.Payment.Method {
	case model.MethodCard:
		return s.checkoutCard(ctx, customer, order, couponID)
	case model.MethodWallet:
		return s.checkoutWallet(ctx, customer, order, couponID, req.Payment.WalletPhone)
	case model.MethodCash:
		return s.checkoutCash(ctx, customer, order, couponID)
	}
	return nil, &ValidationError{Reason: ReasonMissingMethod}
}

func (s *CheckoutService) placeAndClear(ctx context.Context, customerID int64, order *model.Order, couponID *int64) (int64, error) {
	orderID, err := s.Orders.PlaceOrder(ctx, order, couponID)
	if err != nil {
		return 0, fmt.Errorf("place order: %w", err)
	}
	order.OrderID = orderID
	// The cart lived only to build this snapshot.
	s.Cart.Clear(customerID)
	return orderID, nil
}

func (s *CheckoutService) checkoutCard(ctx context.Context, customer *model.Customer, order *model.Order, couponID *int64) (*CheckoutResult, error) {
	// Every checkout places its own order with its own snapshot. Retrying
	// a failed confirmation goes through the intent endpoint against the
	// order id returned below, never through a second checkout.
	orderID, err := s.placeAndClear(ctx, customer.CustomerID, order, couponID)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		OrderID:  orderID,
		Subtotal: order.Subtotal,
		Discount: order.Discount,
		Total:    order.Total,
	}

	intent, err := s.Intents.CreateIntent(ctx, orderID, order.Total, customer.Email)
	if err != nil {
		// Order exists and stays unpaid; the caller retries the intent.
		return result, err
	}
	payload, _ := json.Marshal(intent)
	if _, err := s.Payments.CreateCardPending(ctx, orderID, order.Total, "midtrans", intent.Reference, payload); err != nil {
		return result, err
	}
	result.Intent = intent
	return result, nil
}

func (s *CheckoutService) checkoutWallet(ctx context.Context, customer *model.Customer, order *model.Order, couponID *int64, walletPhone string) (*CheckoutResult, error) {
	orderID, err := s.placeAndClear(ctx, customer.CustomerID, order, couponID)
	if err != nil {
		return nil, err
	}
	// Confirmation is manual on the backoffice side; only the intent and
	// contact number are recorded.
	if _, err := s.Payments.CreateWalletPending(ctx, orderID, order.Total, walletPhone); err != nil {
		return nil, err
	}
	return &CheckoutResult{
		OrderID:  orderID,
		Subtotal: order.Subtotal,
		Discount: order.Discount,
		Total:    order.Total,
	}, nil
}

func (s *CheckoutService) checkoutCash(ctx context.Context, customer *model.Customer, order *model.Order, couponID *int64) (*CheckoutResult, error) {
	orderID, err := s.placeAndClear(ctx, customer.CustomerID, order, couponID)
	if err != nil {
		return nil, err
	}
	change := order.ChangeDue()
	return &CheckoutResult{
		OrderID:   orderID,
		Subtotal:  order.Subtotal,
		Discount:  order.Discount,
		Total:     order.Total,
		ChangeDue: &change,
	}, nil
}
