package repository

import (
	"context"
	"errors"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `orderid, customerid, subtotal, discount, total, couponcode,
	deliveryaddress, customernotes, paymentmethod, paymentstatus, orderstatus,
	courierid, problemreported, problemdetail, cashreceived,
	cashconfirmedcustomer, cashconfirmedcourier, created_at, deliveredat`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	if err := row.Scan(
		&o.OrderID, &o.CustomerID, &o.Subtotal, &o.Discount, &o.Total, &o.CouponCode,
		&o.DeliveryAddress, &o.CustomerNotes, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus,
		&o.CourierID, &o.ProblemReported, &o.ProblemDetail, &o.CashReceivedAmount,
		&o.CashConfirmedByCustomer, &o.CashConfirmedByCourier, &o.CreatedAt, &o.DeliveredAt,
	); err != nil {
		return nil, err
	}
	o.StatusBucket = o.OrderStatus.Bucket()
	return &o, nil
}

// PlaceOrder inserts the order, its line-item snapshot and, when a coupon was
// applied, the redemption row, all in one transaction. The items written here
// are frozen: nothing ever updates them afterwards.
func (r *OrderRepository) PlaceOrder(ctx context.Context, o *model.Order, couponID *int64) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var orderID int64
	insertOrder := `
		INSERT INTO orders (customerid, subtotal, discount, total, couponcode,
			deliveryaddress, customernotes, paymentmethod, paymentstatus, orderstatus,
			problemreported, cashreceived, cashconfirmedcustomer, cashconfirmedcourier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, $11, false, false, $12)
		RETURNING orderid
	`
	if err := tx.QueryRow(ctx, insertOrder,
		o.CustomerID, o.Subtotal, o.Discount, o.Total, o.CouponCode,
		o.DeliveryAddress, o.CustomerNotes, o.PaymentMethod, o.PaymentStatus, o.OrderStatus,
		o.CashReceivedAmount, time.Now(),
	).Scan(&orderID); err != nil {
		return 0, err
	}

	insertItem := `
		INSERT INTO orderitems (orderid, productid, name, unitprice, optionsprice, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING orderitemid
	`
	insertOption := `
		INSERT INTO orderitemoptions (orderitemid, optionid, name, additionalprice)
		VALUES ($1, $2, $3, $4)
	`
	for _, it := range o.Items {
		var itemID int64
		if err := tx.QueryRow(ctx, insertItem,
			orderID, it.ProductID, it.Name, it.UnitPrice, it.OptionsPrice, it.Quantity,
		).Scan(&itemID); err != nil {
			return 0, err
		}
		for _, opt := range it.Options {
			if _, err := tx.Exec(ctx, insertOption, itemID, opt.OptionID, opt.Name, opt.AdditionalPrice); err != nil {
				return 0, err
			}
		}
	}

	if couponID != nil {
		redeem := `INSERT INTO couponredemptions (couponid, customerid, orderid, used_at) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, redeem, *couponID, o.CustomerID, orderID, time.Now()); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return orderID, nil
}

// GetByID returns the order with its line items and options.
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE orderid=$1`
	o, err := scanOrder(r.DB.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, errors.New("order not found")
	}

	items, err := r.getItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) getItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	query := `
		SELECT orderitemid, orderid, productid, name, unitprice, optionsprice, quantity
		FROM orderitems WHERE orderid=$1 ORDER BY orderitemid
	`
	rows, err := r.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.ProductID, &it.Name,
			&it.UnitPrice, &it.OptionsPrice, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	optQuery := `
		SELECT oio.orderitemid, oio.optionid, oio.name, oio.additionalprice
		FROM orderitemoptions oio
		JOIN orderitems oi ON oi.orderitemid = oio.orderitemid
		WHERE oi.orderid=$1
	`
	optRows, err := r.DB.Query(ctx, optQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	byItem := make(map[int64][]model.OrderItemOption)
	for optRows.Next() {
		var itemID int64
		var opt model.OrderItemOption
		if err := optRows.Scan(&itemID, &opt.OptionID, &opt.Name, &opt.AdditionalPrice); err != nil {
			return nil, err
		}
		byItem[itemID] = append(byItem[itemID], opt)
	}
	for i := range items {
		items[i].Options = byItem[items[i].OrderItemID]
	}
	return items, optRows.Err()
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customerid=$1 ORDER BY orderid DESC`
	return r.listOrders(ctx, query, customerID)
}

// ListAvailableForCourier returns pending orders no courier has claimed yet.
func (r *OrderRepository) ListAvailableForCourier(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE orderstatus='pending' AND courierid IS NULL ORDER BY orderid`
	return r.listOrders(ctx, query)
}

// ListByCourier returns the courier's active and past assignments.
func (r *OrderRepository) ListByCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE courierid=$1 ORDER BY orderid DESC`
	return r.listOrders(ctx, query, courierID)
}

// Accept claims a pending order for the courier. The WHERE clause is the
// compare-and-set: two concurrent accepts resolve to exactly one winner, the
// loser sees zero rows updated.
func (r *OrderRepository) Accept(ctx context.Context, orderID, courierID int64) error {
	query := `
		UPDATE orders SET orderstatus='accepted', courierid=$2
		WHERE orderid=$1 AND orderstatus='pending' AND courierid IS NULL
	`
	tag, err := r.DB.Exec(ctx, query, orderID, courierID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderTaken
	}
	return nil
}

// Release returns the order to the pending pool, clearing the courier and
// any problem flags.
func (r *OrderRepository) Release(ctx context.Context, orderID, courierID int64) error {
	query := `
		UPDATE orders SET orderstatus='pending', courierid=NULL,
			problemreported=false, problemdetail=NULL,
			cashconfirmedcustomer=false, cashconfirmedcourier=false
		WHERE orderid=$1 AND courierid=$2 AND orderstatus NOT IN ('delivered','cancelled')
	`
	tag, err := r.DB.Exec(ctx, query, orderID, courierID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotAssignedCourier
	}
	return nil
}

// CancelByCustomer cancels an order that no courier has accepted yet.
func (r *OrderRepository) CancelByCustomer(ctx context.Context, orderID, customerID int64) error {
	query := `
		UPDATE orders SET orderstatus='cancelled'
		WHERE orderid=$1 AND customerid=$2 AND orderstatus='pending' AND courierid IS NULL
	`
	tag, err := r.DB.Exec(ctx, query, orderID, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotPending
	}
	return nil
}

// MarkPreparing moves an accepted order into preparation.
func (r *OrderRepository) MarkPreparing(ctx context.Context, orderID int64) error {
	query := `UPDATE orders SET orderstatus='preparing' WHERE orderid=$1 AND orderstatus='accepted'`
	tag, err := r.DB.Exec(ctx, query, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order is not awaiting preparation")
	}
	return nil
}

// StartDelivery moves the courier's accepted/preparing order onto the road.
func (r *OrderRepository) StartDelivery(ctx context.Context, orderID, courierID int64) error {
	query := `
		UPDATE orders SET orderstatus='en_route'
		WHERE orderid=$1 AND courierid=$2 AND orderstatus IN ('accepted','preparing')
	`
	tag, err := r.DB.Exec(ctx, query, orderID, courierID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotAssignedCourier
	}
	return nil
}

// ReportProblem stores the courier's problem detail; state is unchanged.
func (r *OrderRepository) ReportProblem(ctx context.Context, orderID, courierID int64, detail string) error {
	query := `
		UPDATE orders SET problemreported=true, problemdetail=$3
		WHERE orderid=$1 AND courierid=$2 AND orderstatus NOT IN ('delivered','cancelled')
	`
	tag, err := r.DB.Exec(ctx, query, orderID, courierID, detail)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotAssignedCourier
	}
	return nil
}

// ConfirmCashCustomer records the customer side of the cash handover.
func (r *OrderRepository) ConfirmCashCustomer(ctx context.Context, orderID, customerID int64) error {
	query := `
		UPDATE orders SET cashconfirmedcustomer=true
		WHERE orderid=$1 AND customerid=$2 AND paymentmethod='cash' AND orderstatus='en_route'
	`
	tag, err := r.DB.Exec(ctx, query, orderID, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotEnRoute
	}
	return nil
}

// ConfirmCashCourier records the courier side; the customer must have
// confirmed first.
func (r *OrderRepository) ConfirmCashCourier(ctx context.Context, orderID, courierID int64) error {
	query := `
		UPDATE orders SET cashconfirmedcourier=true
		WHERE orderid=$1 AND courierid=$2 AND paymentmethod='cash' AND cashconfirmedcustomer=true
	`
	tag, err := r.DB.Exec(ctx, query, orderID, courierID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCustomerNotConfirmed
	}
	return nil
}

// MarkDelivered completes the order. The WHERE clause re-validates the cash
// double-confirmation server-side; cash is captured here, at delivery.
func (r *OrderRepository) MarkDelivered(ctx context.Context, orderID, courierID int64) error {
	query := `
		UPDATE orders SET orderstatus='delivered', deliveredat=$3,
			paymentstatus = CASE WHEN paymentmethod='cash' THEN 'paid' ELSE paymentstatus END
		WHERE orderid=$1 AND courierid=$2 AND orderstatus='en_route'
			AND (paymentmethod <> 'cash' OR (cashconfirmedcustomer AND cashconfirmedcourier))
	`
	tag, err := r.DB.Exec(ctx, query, orderID, courierID, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCashUnconfirmed
	}
	return nil
}

// MarkPaidTx marks the order paid inside the webhook transaction.
func (r *OrderRepository) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64) error {
	query := `UPDATE orders SET paymentstatus='paid' WHERE orderid=$1`
	_, err := tx.Exec(ctx, query, orderID)
	return err
}
