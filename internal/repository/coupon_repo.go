package repository

import (
	"context"
	"errors"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponRepository struct {
	DB *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{DB: db}
}

const couponColumns = `couponid, code, description, discounttype, discountvalue,
	minimumamount, validfrom, validto, active, created_at, deleted_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	if err := row.Scan(
		&c.CouponID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MinimumAmount, &c.ValidFrom, &c.ValidTo, &c.Active, &c.CreatedAt, &c.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByCode looks a coupon up by case-insensitive code. Returns (nil, nil)
// when no such coupon exists so the resolver can report "not found" as a
// business outcome instead of an error.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE LOWER(code)=LOWER($1) AND deleted_at IS NULL`
	c, err := scanCoupon(r.DB.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// IsUsedBy reports whether the customer has already redeemed the coupon.
func (r *CouponRepository) IsUsedBy(ctx context.Context, couponID, customerID int64) (bool, error) {
	var used bool
	query := `SELECT EXISTS (SELECT 1 FROM couponredemptions WHERE couponid=$1 AND customerid=$2)`
	if err := r.DB.QueryRow(ctx, query, couponID, customerID).Scan(&used); err != nil {
		return false, err
	}
	return used, nil
}

func (r *CouponRepository) listCoupons(ctx context.Context, query string, args ...interface{}) ([]model.Coupon, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ListAvailable returns active, in-window coupons the customer has not used.
func (r *CouponRepository) ListAvailable(ctx context.Context, customerID int64) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + ` FROM coupons c
		WHERE c.active AND c.deleted_at IS NULL
			AND c.validfrom <= $2 AND c.validto >= $2
			AND NOT EXISTS (
				SELECT 1 FROM couponredemptions cr
				WHERE cr.couponid = c.couponid AND cr.customerid = $1
			)
		ORDER BY c.validto
	`
	return r.listCoupons(ctx, query, customerID, time.Now())
}

// ListUsed returns coupons the customer has redeemed.
func (r *CouponRepository) ListUsed(ctx context.Context, customerID int64) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + ` FROM coupons c
		JOIN couponredemptions cr ON cr.couponid = c.couponid
		WHERE cr.customerid = $1
		ORDER BY cr.used_at DESC
	`
	return r.listCoupons(ctx, query, customerID)
}

// ListExpired returns unused coupons whose validity window has passed.
func (r *CouponRepository) ListExpired(ctx context.Context, customerID int64) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + ` FROM coupons c
		WHERE c.deleted_at IS NULL AND c.validto < $2
			AND NOT EXISTS (
				SELECT 1 FROM couponredemptions cr
				WHERE cr.couponid = c.couponid AND cr.customerid = $1
			)
		ORDER BY c.validto DESC
	`
	return r.listCoupons(ctx, query, customerID, time.Now())
}

// Create inserts a new coupon (admin only).
func (r *CouponRepository) Create(ctx context.Context, c *model.Coupon) (int64, error) {
	var id int64
	query := `
		INSERT INTO coupons (code, description, discounttype, discountvalue,
			minimumamount, validfrom, validto, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING couponid
	`
	if err := r.DB.QueryRow(ctx, query,
		c.Code, c.Description, c.DiscountType, c.DiscountValue,
		c.MinimumAmount, c.ValidFrom, c.ValidTo, c.Active, time.Now(),
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Deactivate soft-disables a coupon.
func (r *CouponRepository) Deactivate(ctx context.Context, couponID int64) error {
	query := `UPDATE coupons SET active=false WHERE couponid=$1 AND active`
	tag, err := r.DB.Exec(ctx, query, couponID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("coupon not found or already inactive")
	}
	return nil
}
