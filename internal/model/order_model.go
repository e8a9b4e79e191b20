package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusEnRoute   OrderStatus = "en_route"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "card"
	MethodWallet PaymentMethod = "wallet"
	MethodCash   PaymentMethod = "cash"
)

// StatusBucket is the customer-facing grouping of the canonical statuses.
// One mapping, used by every view: pending/accepted/preparing collapse into
// "awaiting" until the courier is on the road.
type StatusBucket string

const (
	BucketAwaiting   StatusBucket = "awaiting"
	BucketInProgress StatusBucket = "in_progress"
	BucketDelivered  StatusBucket = "delivered"
	BucketCancelled  StatusBucket = "cancelled"
)

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s OrderStatus) Bucket() StatusBucket {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing:
		return BucketAwaiting
	case StatusEnRoute:
		return BucketInProgress
	case StatusDelivered:
		return BucketDelivered
	case StatusCancelled:
		return BucketCancelled
	}
	return BucketAwaiting
}

// Transition guard errors. These are the advisory client-facing checks; the
// repository re-validates every transition with a conditional UPDATE so a
// stale snapshot can never push an order into an illegal state.
var (
	ErrOrderTerminal        = errors.New("order already delivered or cancelled")
	ErrOrderNotPending      = errors.New("order is no longer pending")
	ErrOrderTaken           = errors.New("order already taken by another courier")
	ErrNotAssignedCourier   = errors.New("order is not assigned to this courier")
	ErrNotEnRoute           = errors.New("order is not out for delivery")
	ErrNotCashOrder         = errors.New("order is not a cash order")
	ErrCashUnconfirmed      = errors.New("cash payment has not been confirmed by both parties")
	ErrCustomerNotConfirmed = errors.New("customer has not confirmed the cash payment yet")
)

// OrderItemOption is one selected customization, with its price frozen at
// order time.
type OrderItemOption struct {
	OptionID        int64           `json:"optionid"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additionalprice"`
}

// OrderItem is an immutable snapshot of a cart line. Prices here never change
// after the order is placed, even if the catalog product does.
type OrderItem struct {
	OrderItemID  int64             `json:"orderitemid"`
	OrderID      int64             `json:"orderid"`
	ProductID    int64             `json:"productid"`
	Name         string            `json:"name"`
	UnitPrice    decimal.Decimal   `json:"unitprice"`
	OptionsPrice decimal.Decimal   `json:"optionsprice"`
	Quantity     int               `json:"quantity"`
	Options      []OrderItemOption `json:"options,omitempty"`
}

// LineTotal is (unitprice + optionsprice) * quantity.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Add(it.OptionsPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Order struct {
	OrderID         int64           `json:"orderid"`
	CustomerID      int64           `json:"customerid"`
	Items           []OrderItem     `json:"items,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	CouponCode      *string         `json:"couponcode,omitempty"`
	DeliveryAddress string          `json:"deliveryaddress"`
	CustomerNotes   *string         `json:"customernotes,omitempty"`

	PaymentMethod PaymentMethod `json:"paymentmethod"`
	PaymentStatus PaymentStatus `json:"paymentstatus"`
	OrderStatus   OrderStatus   `json:"orderstatus"`
	StatusBucket  StatusBucket  `json:"statusbucket"`

	CourierID       *int64  `json:"courierid,omitempty"`
	ProblemReported bool    `json:"problemreported"`
	ProblemDetail   *string `json:"problemdetail,omitempty"`

	CashReceivedAmount      *decimal.Decimal `json:"cashreceivedamount,omitempty"`
	CashConfirmedByCustomer bool             `json:"cashconfirmedbycustomer"`
	CashConfirmedByCourier  bool             `json:"cashconfirmedbycourier"`

	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"deliveredat,omitempty"`
}

// ChangeDue returns the change owed on a cash order, zero otherwise.
func (o *Order) ChangeDue() decimal.Decimal {
	if o.PaymentMethod != MethodCash || o.CashReceivedAmount == nil {
		return decimal.Zero
	}
	change := o.CashReceivedAmount.Sub(o.Total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

func (o *Order) assignedTo(courierID int64) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}

// CanAccept checks whether an unassigned pending order can be claimed.
func (o *Order) CanAccept() error {
	if o.OrderStatus.Terminal() {
		return ErrOrderTerminal
	}
	if o.OrderStatus != StatusPending || o.CourierID != nil {
		return ErrOrderTaken
	}
	return nil
}

// CanRelease checks whether the courier may hand the order back to the pool.
func (o *Order) CanRelease(courierID int64) error {
	if !o.assignedTo(courierID) {
		return ErrNotAssignedCourier
	}
	if o.OrderStatus.Terminal() {
		return ErrOrderTerminal
	}
	return nil
}

// CanCancelByCustomer: only before any courier has accepted.
func (o *Order) CanCancelByCustomer() error {
	if o.OrderStatus.Terminal() {
		return ErrOrderTerminal
	}
	if o.OrderStatus != StatusPending || o.CourierID != nil {
		return ErrOrderNotPending
	}
	return nil
}

// CanStartDelivery: assigned courier moves accepted/preparing to en_route.
func (o *Order) CanStartDelivery(courierID int64) error {
	if !o.assignedTo(courierID) {
		return ErrNotAssignedCourier
	}
	if o.OrderStatus != StatusAccepted && o.OrderStatus != StatusPreparing {
		return ErrOrderNotPending
	}
	return nil
}

// CanReportProblem: any assigned, non-terminal order.
func (o *Order) CanReportProblem(courierID int64) error {
	if !o.assignedTo(courierID) {
		return ErrNotAssignedCourier
	}
	if o.OrderStatus.Terminal() {
		return ErrOrderTerminal
	}
	return nil
}

// CanConfirmCashCustomer: cash order, courier on the way.
func (o *Order) CanConfirmCashCustomer(customerID int64) error {
	if o.CustomerID != customerID {
		return errors.New("order does not belong to this customer")
	}
	if o.PaymentMethod != MethodCash {
		return ErrNotCashOrder
	}
	if o.OrderStatus != StatusEnRoute {
		return ErrNotEnRoute
	}
	return nil
}

// CanConfirmCashCourier: the customer must confirm first.
func (o *Order) CanConfirmCashCourier(courierID int64) error {
	if !o.assignedTo(courierID) {
		return ErrNotAssignedCourier
	}
	if o.PaymentMethod != MethodCash {
		return ErrNotCashOrder
	}
	if !o.CashConfirmedByCustomer {
		return ErrCustomerNotConfirmed
	}
	return nil
}

// CanDeliver gates completion on the cash double-confirmation: a courier can
// never mark an unpaid cash order as delivered.
func (o *Order) CanDeliver(courierID int64) error {
	if !o.assignedTo(courierID) {
		return ErrNotAssignedCourier
	}
	if o.OrderStatus != StatusEnRoute {
		return ErrNotEnRoute
	}
	if o.PaymentMethod == MethodCash &&
		!(o.CashConfirmedByCustomer && o.CashConfirmedByCourier) {
		return ErrCashUnconfirmed
	}
	return nil
}
