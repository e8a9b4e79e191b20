package repository

import (
	"context"
	"errors"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// CreateCardPending records a freshly minted card intent. A retried checkout
// mints a new intent row against the same order.
func (r *PaymentRepository) CreateCardPending(ctx context.Context, orderID int64, amount decimal.Decimal, provider, externalRef string, payload []byte) (int64, error) {
	var id int64
	query := `
		INSERT INTO payments (orderid, method, amount, paymentstatus, provider, providerref, providerpayload, createdat)
		VALUES ($1, 'card', $2, 'pending', $3, $4, $5, $6)
		RETURNING paymentid
	`
	if err := r.DB.QueryRow(ctx, query, orderID, amount, provider, externalRef, payload, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateWalletPending records the wallet payment intent; confirmation is
// manual and asynchronous, nothing is captured here.
func (r *PaymentRepository) CreateWalletPending(ctx context.Context, orderID int64, amount decimal.Decimal, walletPhone string) (int64, error) {
	var id int64
	query := `
		INSERT INTO payments (orderid, method, amount, paymentstatus, walletphone, createdat)
		VALUES ($1, 'wallet', $2, 'pending', $3, $4)
		RETURNING paymentid
	`
	if err := r.DB.QueryRow(ctx, query, orderID, amount, walletPhone, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByOrderID returns the latest payment row for the order, or nil.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	var p model.Payment
	query := `
		SELECT paymentid, orderid, method, amount, paymentstatus, provider, providerref, providerpayload, walletphone, createdat, paidat
		FROM payments WHERE orderid=$1 ORDER BY paymentid DESC LIMIT 1
	`
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&p.PaymentID, &p.OrderID, &p.Method, &p.Amount, &p.PaymentStatus,
		&p.Provider, &p.ProviderRef, &p.ProviderPayload, &p.WalletPhone, &p.CreatedAt, &p.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// MarkPaidTx marks the order's payment as paid inside the caller's
// transaction; idempotent when the row is already paid.
func (r *PaymentRepository) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64, providerRef string, payload []byte) error {
	query := `
		UPDATE payments SET paymentstatus='paid', providerref=$2, providerpayload=$3, paidat=$4
		WHERE orderid=$1 AND paymentstatus <> 'paid'
	`
	_, err := tx.Exec(ctx, query, orderID, providerRef, payload, time.Now())
	return err
}

// MarkFailed flags the payment attempt failed. The order itself stays
// pending/unpaid so the customer can retry against the same order.
func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID int64, payload []byte) error {
	query := `
		UPDATE payments SET paymentstatus='failed', providerpayload=$2
		WHERE orderid=$1 AND paymentstatus='pending'
	`
	_, err := r.DB.Exec(ctx, query, orderID, payload)
	return err
}
