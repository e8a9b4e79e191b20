package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBucket(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   StatusBucket
	}{
		{StatusPending, BucketAwaiting},
		{StatusAccepted, BucketAwaiting},
		{StatusPreparing, BucketAwaiting},
		{StatusEnRoute, BucketInProgress},
		{StatusDelivered, BucketDelivered},
		{StatusCancelled, BucketCancelled},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Bucket())
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusEnRoute.Terminal())
}

func TestCanAccept(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr error
	}{
		{
			name:  "pending unassigned",
			order: Order{OrderStatus: StatusPending},
		},
		{
			name:    "already assigned",
			order:   Order{OrderStatus: StatusAccepted, CourierID: ptr(int64(7))},
			wantErr: ErrOrderTaken,
		},
		{
			name:    "pending but claimed",
			order:   Order{OrderStatus: StatusPending, CourierID: ptr(int64(7))},
			wantErr: ErrOrderTaken,
		},
		{
			name:    "cancelled",
			order:   Order{OrderStatus: StatusCancelled},
			wantErr: ErrOrderTerminal,
		},
		{
			name:    "delivered",
			order:   Order{OrderStatus: StatusDelivered},
			wantErr: ErrOrderTerminal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.CanAccept()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanCancelByCustomer(t *testing.T) {
	pending := Order{OrderStatus: StatusPending}
	assert.NoError(t, pending.CanCancelByCustomer())

	claimed := Order{OrderStatus: StatusPending, CourierID: ptr(int64(3))}
	assert.ErrorIs(t, claimed.CanCancelByCustomer(), ErrOrderNotPending)

	accepted := Order{OrderStatus: StatusAccepted, CourierID: ptr(int64(3))}
	assert.ErrorIs(t, accepted.CanCancelByCustomer(), ErrOrderNotPending)

	delivered := Order{OrderStatus: StatusDelivered}
	assert.ErrorIs(t, delivered.CanCancelByCustomer(), ErrOrderTerminal)
}

func TestCanStartDelivery(t *testing.T) {
	courier := int64(5)
	tests := []struct {
		name    string
		order   Order
		wantErr error
	}{
		{
			name:  "accepted by me",
			order: Order{OrderStatus: StatusAccepted, CourierID: &courier},
		},
		{
			name:  "preparing by me",
			order: Order{OrderStatus: StatusPreparing, CourierID: &courier},
		},
		{
			name:    "not mine",
			order:   Order{OrderStatus: StatusAccepted, CourierID: ptr(int64(99))},
			wantErr: ErrNotAssignedCourier,
		},
		{
			name:    "unassigned",
			order:   Order{OrderStatus: StatusPending},
			wantErr: ErrNotAssignedCourier,
		},
		{
			name:    "already en route",
			order:   Order{OrderStatus: StatusEnRoute, CourierID: &courier},
			wantErr: ErrOrderNotPending,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.CanStartDelivery(courier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanConfirmCashCustomer(t *testing.T) {
	base := Order{
		CustomerID:    10,
		PaymentMethod: MethodCash,
		OrderStatus:   StatusEnRoute,
	}

	assert.NoError(t, base.CanConfirmCashCustomer(10))

	wrongCustomer := base
	assert.Error(t, wrongCustomer.CanConfirmCashCustomer(11))

	cardOrder := base
	cardOrder.PaymentMethod = MethodCard
	assert.ErrorIs(t, cardOrder.CanConfirmCashCustomer(10), ErrNotCashOrder)

	notEnRoute := base
	notEnRoute.OrderStatus = StatusAccepted
	assert.ErrorIs(t, notEnRoute.CanConfirmCashCustomer(10), ErrNotEnRoute)
}

func TestCanConfirmCashCourier(t *testing.T) {
	courier := int64(5)
	base := Order{
		PaymentMethod:           MethodCash,
		OrderStatus:             StatusEnRoute,
		CourierID:               &courier,
		CashConfirmedByCustomer: true,
	}

	assert.NoError(t, base.CanConfirmCashCourier(courier))

	// The courier side is locked until the customer confirms first.
	unconfirmed := base
	unconfirmed.CashConfirmedByCustomer = false
	assert.ErrorIs(t, unconfirmed.CanConfirmCashCourier(courier), ErrCustomerNotConfirmed)

	notMine := base
	assert.ErrorIs(t, notMine.CanConfirmCashCourier(99), ErrNotAssignedCourier)

	wallet := base
	wallet.PaymentMethod = MethodWallet
	assert.ErrorIs(t, wallet.CanConfirmCashCourier(courier), ErrNotCashOrder)
}

func TestCanDeliver(t *testing.T) {
	courier := int64(5)
	tests := []struct {
		name    string
		order   Order
		wantErr error
	}{
		{
			name: "card order en route",
			order: Order{
				OrderStatus:   StatusEnRoute,
				PaymentMethod: MethodCard,
				CourierID:     &courier,
			},
		},
		{
			name: "cash order both confirmed",
			order: Order{
				OrderStatus:             StatusEnRoute,
				PaymentMethod:           MethodCash,
				CourierID:               &courier,
				CashConfirmedByCustomer: true,
				CashConfirmedByCourier:  true,
			},
		},
		{
			name: "cash order customer only",
			order: Order{
				OrderStatus:             StatusEnRoute,
				PaymentMethod:           MethodCash,
				CourierID:               &courier,
				CashConfirmedByCustomer: true,
			},
			wantErr: ErrCashUnconfirmed,
		},
		{
			name: "cash order courier only",
			order: Order{
				OrderStatus:            StatusEnRoute,
				PaymentMethod:          MethodCash,
				CourierID:              &courier,
				CashConfirmedByCourier: true,
			},
			wantErr: ErrCashUnconfirmed,
		},
		{
			name: "cash order neither confirmed",
			order: Order{
				OrderStatus:   StatusEnRoute,
				PaymentMethod: MethodCash,
				CourierID:     &courier,
			},
			wantErr: ErrCashUnconfirmed,
		},
		{
			name: "not en route",
			order: Order{
				OrderStatus:   StatusPreparing,
				PaymentMethod: MethodCard,
				CourierID:     &courier,
			},
			wantErr: ErrNotEnRoute,
		},
		{
			name: "wrong courier",
			order: Order{
				OrderStatus:   StatusEnRoute,
				PaymentMethod: MethodCard,
				CourierID:     ptr(int64(42)),
			},
			wantErr: ErrNotAssignedCourier,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.CanDeliver(courier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChangeDue(t *testing.T) {
	received := decimal.NewFromFloat(50.00)
	cash := Order{
		PaymentMethod:      MethodCash,
		Total:              decimal.NewFromFloat(42.50),
		CashReceivedAmount: &received,
	}
	assert.True(t, cash.ChangeDue().Equal(decimal.NewFromFloat(7.50)))

	exact := Order{
		PaymentMethod:      MethodCash,
		Total:              received,
		CashReceivedAmount: &received,
	}
	assert.True(t, exact.ChangeDue().IsZero())

	card := Order{PaymentMethod: MethodCard, Total: decimal.NewFromFloat(42.50)}
	assert.True(t, card.ChangeDue().IsZero())
}

func TestOrderItemLineTotal(t *testing.T) {
	it := OrderItem{
		UnitPrice:    decimal.NewFromFloat(9.50),
		OptionsPrice: decimal.NewFromFloat(1.25),
		Quantity:     3,
	}
	require.True(t, it.LineTotal().Equal(decimal.NewFromFloat(32.25)))
}

func TestOptionsKeyOrderInsensitive(t *testing.T) {
	a := CartItem{ProductID: 1, SelectedOptions: []CartOption{
		{OptionID: 3}, {OptionID: 1}, {OptionID: 2},
	}}
	b := CartItem{ProductID: 1, SelectedOptions: []CartOption{
		{OptionID: 2}, {OptionID: 3}, {OptionID: 1},
	}}
	assert.Equal(t, a.OptionsKey(), b.OptionsKey())
	assert.Equal(t, "1-2-3", a.OptionsKey())

	none := CartItem{ProductID: 1}
	assert.Equal(t, "", none.OptionsKey())
}
