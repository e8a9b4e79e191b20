package services

import (
	"context"
	"errors"
	"testing"

	"QuickBiteAPI/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderPlacer struct {
	nextID   int64
	placed   []*model.Order
	placeErr error
}

func (f *fakeOrderPlacer) PlaceOrder(_ context.Context, o *model.Order, _ *int64) (int64, error) {
	if f.placeErr != nil {
		return 0, f.placeErr
	}
	f.nextID++
	snapshot := *o
	f.placed = append(f.placed, &snapshot)
	return f.nextID, nil
}

type fakePaymentRecorder struct {
	cardOrders   []int64
	walletOrders []int64
	walletPhones []string
}

func (f *fakePaymentRecorder) CreateCardPending(_ context.Context, orderID int64, _ decimal.Decimal, _, _ string, _ []byte) (int64, error) {
	f.cardOrders = append(f.cardOrders, orderID)
	return int64(len(f.cardOrders)), nil
}

func (f *fakePaymentRecorder) CreateWalletPending(_ context.Context, orderID int64, _ decimal.Decimal, phone string) (int64, error) {
	f.walletOrders = append(f.walletOrders, orderID)
	f.walletPhones = append(f.walletPhones, phone)
	return int64(len(f.walletOrders)), nil
}

type fakeIntentMinter struct {
	calls int
	fail  bool
}

func (f *fakeIntentMinter) CreateIntent(_ context.Context, orderID int64, _ decimal.Decimal, _ string) (*model.PaymentIntent, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("processor unavailable")
	}
	return &model.PaymentIntent{
		OrderID:   orderID,
		Reference: "ORDER-1-abc",
		Token:     "snap-token",
	}, nil
}

type checkoutFixture struct {
	svc      *CheckoutService
	cart     *CartService
	orders   *fakeOrderPlacer
	payments *fakePaymentRecorder
	intents  *fakeIntentMinter
	customer *model.Customer
}

func newCheckoutFixture(t *testing.T, coupons ...*model.Coupon) *checkoutFixture {
	t.Helper()
	cart := NewCartService()
	couponSvc := NewCouponService(newFakeCouponSource(coupons...))
	couponSvc.Now = fixedNow
	orders := &fakeOrderPlacer{}
	payments := &fakePaymentRecorder{}
	intents := &fakeIntentMinter{}
	return &checkoutFixture{
		svc:      NewCheckoutService(cart, couponSvc, orders, payments, intents),
		cart:     cart,
		orders:   orders,
		payments: payments,
		intents:  intents,
		customer: &model.Customer{CustomerID: 10, AuthID: 1, Email: "jo@example.com"},
	}
}

func (f *checkoutFixture) fillCart(t *testing.T) {
	t.Helper()
	require.NoError(t, f.cart.AddItem(f.customer.CustomerID, model.CartItem{
		ProductID: 1,
		Name:      "Burger",
		UnitPrice: decimal.NewFromFloat(8.50),
		Quantity:  2,
		SelectedOptions: []model.CartOption{
			{OptionID: 1, Name: "Extra cheese", AdditionalPrice: decimal.NewFromFloat(1.00)},
		},
	}))
	require.NoError(t, f.cart.AddItem(f.customer.CustomerID, model.CartItem{
		ProductID: 2,
		Name:      "Fries",
		UnitPrice: decimal.NewFromFloat(3.00),
		Quantity:  1,
	}))
	// subtotal: 2*9.50 + 3.00 = 22.00
}

func cashDetails(received float64) PaymentDetails {
	return PaymentDetails{
		Method:          model.MethodCash,
		DeliveryAddress: "12 Main St",
		CashReceived:    decimal.NewFromFloat(received),
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		Payment: cashDetails(50),
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.placed)
}

func TestCheckoutValidationBlocksBeforePlacement(t *testing.T) {
	tests := []struct {
		name    string
		payment PaymentDetails
		reason  ValidationReason
	}{
		{
			name:    "missing address",
			payment: PaymentDetails{Method: model.MethodCash, CashReceived: decimal.NewFromInt(50)},
			reason:  ReasonMissingAddress,
		},
		{
			name:    "missing method",
			payment: PaymentDetails{DeliveryAddress: "12 Main St"},
			reason:  ReasonMissingMethod,
		},
		{
			name: "card widget not ready",
			payment: PaymentDetails{
				Method:          model.MethodCard,
				DeliveryAddress: "12 Main St",
			},
			reason: ReasonWidgetNotReady,
		},
		{
			name: "wallet without phone",
			payment: PaymentDetails{
				Method:          model.MethodWallet,
				DeliveryAddress: "12 Main St",
			},
			reason: ReasonMissingPhone,
		},
		{
			name:    "cash below total",
			payment: cashDetails(10),
			reason:  ReasonInsufficientCash,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			f.fillCart(t)

			_, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
				Payment: tt.payment,
			})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.reason, verr.Reason)

			// Nothing was placed and the cart survived the rejection.
			assert.Empty(t, f.orders.placed)
			assert.Equal(t, 3, f.cart.TotalItemCount(f.customer.CustomerID))
		})
	}
}

func TestCheckoutCashSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t)

	res, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		Payment: cashDetails(30),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.OrderID)
	assert.True(t, res.Subtotal.Equal(decimal.NewFromFloat(22.00)))
	assert.True(t, res.Total.Equal(decimal.NewFromFloat(22.00)))
	require.NotNil(t, res.ChangeDue)
	assert.True(t, res.ChangeDue.Equal(decimal.NewFromFloat(8.00)))

	// Cart is consumed by the checkout.
	assert.Equal(t, 0, f.cart.TotalItemCount(f.customer.CustomerID))

	require.Len(t, f.orders.placed, 1)
	placed := f.orders.placed[0]
	assert.Equal(t, model.StatusPending, placed.OrderStatus)
	assert.Equal(t, model.PaymentPending, placed.PaymentStatus)
	require.NotNil(t, placed.CashReceivedAmount)
	assert.True(t, placed.CashReceivedAmount.Equal(decimal.NewFromFloat(30)))
}

func TestCheckoutSnapshotsCartLines(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t)

	_, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		Payment: cashDetails(30),
	})
	require.NoError(t, err)

	placed := f.orders.placed[0]
	require.Len(t, placed.Items, 2)
	assert.Equal(t, "Burger", placed.Items[0].Name)
	assert.True(t, placed.Items[0].UnitPrice.Equal(decimal.NewFromFloat(8.50)))
	assert.True(t, placed.Items[0].OptionsPrice.Equal(decimal.NewFromFloat(1.00)))
	require.Len(t, placed.Items[0].Options, 1)
	assert.Equal(t, "Extra cheese", placed.Items[0].Options[0].Name)
	assert.True(t, placed.Items[0].LineTotal().Equal(decimal.NewFromFloat(19.00)))
}

func TestCheckoutWithCoupon(t *testing.T) {
	f := newCheckoutFixture(t, percentCoupon())
	f.fillCart(t)

	// 10% off 22.00 leaves 19.80.
	res, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		CouponCode: "save10",
		Payment:    cashDetails(20),
	})
	require.NoError(t, err)
	assert.True(t, res.Discount.Equal(decimal.NewFromFloat(2.20)))
	assert.True(t, res.Total.Equal(decimal.NewFromFloat(19.80)))

	placed := f.orders.placed[0]
	require.NotNil(t, placed.CouponCode)
	assert.Equal(t, "SAVE10", *placed.CouponCode)
}

func TestCheckoutInvalidCouponStopsSequence(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t)

	_, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		CouponCode: "NOPE",
		Payment:    cashDetails(50),
	})
	require.Error(t, err)
	assert.Equal(t, "coupon not found", err.Error())
	assert.Empty(t, f.orders.placed)
}

func TestCheckoutCashValidatedAgainstDiscountedTotal(t *testing.T) {
	f := newCheckoutFixture(t, percentCoupon())
	f.fillCart(t)

	// 19.80 due after the coupon: 20 in cash covers it even though the
	// undiscounted subtotal is 22.00.
	res, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		CouponCode: "SAVE10",
		Payment:    cashDetails(20),
	})
	require.NoError(t, err)
	require.NotNil(t, res.ChangeDue)
	assert.True(t, res.ChangeDue.Equal(decimal.NewFromFloat(0.20)))
}

func TestCheckoutCardSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t)

	res, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		Payment: PaymentDetails{
			Method:          model.MethodCard,
			DeliveryAddress: "12 Main St",
			CardWidgetReady: true,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Intent)
	assert.Equal(t, "snap-token", res.Intent.Token)
	assert.Equal(t, []int64{res.OrderID}, f.payments.cardOrders)
	assert.Equal(t, 0, f.cart.TotalItemCount(f.customer.CustomerID))
}

func TestCheckoutCardIntentFailureKeepsOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t)
	f.intents.fail = true

	res, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		Payment: PaymentDetails{
			Method:          model.MethodCard,
			DeliveryAddress: "12 Main St",
			CardWidgetReady: true,
		},
	})
	// The order was created before minting failed: the caller gets both
	// the order id and the error, and retries payment against that id.
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, int64(1), res.OrderID)
	assert.Nil(t, res.Intent)
	require.Len(t, f.orders.placed, 1)
	assert.Empty(t, f.payments.cardOrders)
}

func TestCheckoutCardNewCartNeverAliasesOldOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	cardPayment := PaymentDetails{
		Method:          model.MethodCard,
		DeliveryAddress: "12 Main St",
		CardWidgetReady: true,
	}

	// First checkout ends with an unpaid card order the customer abandons.
	f.fillCart(t)
	first, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{Payment: cardPayment})
	require.NoError(t, err)

	// A later checkout with a different cart that happens to hit the same
	// 22.00 total must place its own order with its own line items, never
	// fold onto the abandoned one.
	require.NoError(t, f.cart.AddItem(f.customer.CustomerID, model.CartItem{
		ProductID: 9,
		Name:      "Sushi platter",
		UnitPrice: decimal.NewFromFloat(22.00),
		Quantity:  1,
	}))
	second, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{Payment: cardPayment})
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
	require.Len(t, f.orders.placed, 2)
	require.Len(t, f.orders.placed[1].Items, 1)
	assert.Equal(t, "Sushi platter", f.orders.placed[1].Items[0].Name)
	assert.Equal(t, 0, f.cart.TotalItemCount(f.customer.CustomerID))
	assert.Equal(t, []int64{first.OrderID, second.OrderID}, f.payments.cardOrders)
}

func TestCheckoutWallet(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t)

	res, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		Payment: PaymentDetails{
			Method:          model.MethodWallet,
			DeliveryAddress: "12 Main St",
			WalletPhone:     "0812345678",
		},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Intent)
	assert.Equal(t, []string{"0812345678"}, f.payments.walletPhones)
	assert.Equal(t, []int64{res.OrderID}, f.payments.walletOrders)
	assert.Equal(t, 0, f.intents.calls)
}

func TestCheckoutPlaceFailureLeavesCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t)
	f.orders.placeErr = errors.New("db down")

	_, err := f.svc.Checkout(context.Background(), f.customer, CheckoutRequest{
		Payment: cashDetails(50),
	})
	require.Error(t, err)
	assert.Equal(t, 3, f.cart.TotalItemCount(f.customer.CustomerID))
}
