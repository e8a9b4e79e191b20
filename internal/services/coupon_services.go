package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/shopspring/decimal"
)

// CouponSource is what the resolver and the listing endpoints need from
// storage. Satisfied by repository.CouponRepository.
type CouponSource interface {
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	IsUsedBy(ctx context.Context, couponID, customerID int64) (bool, error)
	ListAvailable(ctx context.Context, customerID int64) ([]model.Coupon, error)
	ListUsed(ctx context.Context, customerID int64) ([]model.Coupon, error)
	ListExpired(ctx context.Context, customerID int64) ([]model.Coupon, error)
	Create(ctx context.Context, c *model.Coupon) (int64, error)
	Deactivate(ctx context.Context, couponID int64) error
}

type CouponService struct {
	Repo CouponSource
	Now  func() time.Time
}

func NewCouponService(repo CouponSource) *CouponService {
	return &CouponService{Repo: repo, Now: time.Now}
}

var oneHundred = decimal.NewFromInt(100)

// ComputeDiscount applies the coupon's rule to a subtotal: percentage of the
// subtotal, or the fixed value capped at the subtotal. The result is rounded
// to 2 decimal places and never exceeds the subtotal.
func ComputeDiscount(c *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case model.DiscountPercentage:
		discount = subtotal.Mul(c.DiscountValue).Div(oneHundred).Round(2)
	case model.DiscountFixed:
		discount = c.DiscountValue.Round(2)
	default:
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// Apply resolves a code against the current subtotal for this customer. It
// always recomputes from scratch: the caller must re-apply whenever the
// subtotal changes, a previously computed discount is never trusted against
// a new subtotal.
func (s *CouponService) Apply(ctx context.Context, code string, subtotal decimal.Decimal, customerID int64) (*model.CouponResult, error) {
	invalid := func(msg string) *model.CouponResult {
		return &model.CouponResult{
			Valid:      false,
			Code:       code,
			Discount:   decimal.Zero,
			FinalTotal: subtotal,
			Message:    msg,
		}
	}

	c, err := s.Repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return invalid("coupon not found"), nil
	}
	if !c.Active {
		return invalid("coupon is no longer active"), nil
	}

	now := s.Now()
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return invalid("coupon has expired"), nil
	}

	used, err := s.Repo.IsUsedBy(ctx, c.CouponID, customerID)
	if err != nil {
		return nil, err
	}
	if used {
		return invalid("coupon already used"), nil
	}

	if subtotal.LessThan(c.MinimumAmount) {
		return invalid(fmt.Sprintf("order minimum of %s not reached", c.MinimumAmount.StringFixed(2))), nil
	}

	discount := ComputeDiscount(c, subtotal)
	final := subtotal.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return &model.CouponResult{
		Valid:      true,
		Code:       c.Code,
		Discount:   discount,
		FinalTotal: final,
	}, nil
}

func (s *CouponService) ListAvailable(ctx context.Context, customerID int64) ([]model.Coupon, error) {
	return s.Repo.ListAvailable(ctx, customerID)
}

func (s *CouponService) ListUsed(ctx context.Context, customerID int64) ([]model.Coupon, error) {
	return s.Repo.ListUsed(ctx, customerID)
}

func (s *CouponService) ListExpired(ctx context.Context, customerID int64) ([]model.Coupon, error) {
	return s.Repo.ListExpired(ctx, customerID)
}

// CreateCoupon validates and inserts a new coupon (admin).
func (s *CouponService) CreateCoupon(ctx context.Context, c *model.Coupon) (int64, error) {
	if c.Code == "" {
		return 0, errors.New("code is required")
	}
	if c.DiscountType != model.DiscountPercentage && c.DiscountType != model.DiscountFixed {
		return 0, errors.New("discount type must be percentage or fixed_amount")
	}
	if c.DiscountValue.IsNegative() || c.MinimumAmount.IsNegative() {
		return 0, errors.New("discount value and minimum amount must not be negative")
	}
	if c.ValidTo.Before(c.ValidFrom) {
		return 0, errors.New("validity window is inverted")
	}
	existing, err := s.Repo.FindByCode(ctx, c.Code)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, errors.New("coupon code already exists")
	}
	return s.Repo.Create(ctx, c)
}

// DeactivateCoupon disables a coupon (admin).
func (s *CouponService) DeactivateCoupon(ctx context.Context, couponID int64) error {
	return s.Repo.Deactivate(ctx, couponID)
}

// Resolve is Apply plus the coupon row itself, for callers that need the
// coupon id (checkout records the redemption).
func (s *CouponService) Resolve(ctx context.Context, code string, subtotal decimal.Decimal, customerID int64) (*model.Coupon, *model.CouponResult, error) {
	res, err := s.Apply(ctx, code, subtotal, customerID)
	if err != nil {
		return nil, nil, err
	}
	if !res.Valid {
		return nil, res, nil
	}
	c, err := s.Repo.FindByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	return c, res, nil
}
