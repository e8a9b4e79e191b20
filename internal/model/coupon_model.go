package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

type Coupon struct {
	CouponID      int64           `json:"couponid"`
	Code          string          `json:"code"`
	Description   *string         `json:"description,omitempty"`
	DiscountType  DiscountType    `json:"discounttype"`
	DiscountValue decimal.Decimal `json:"discountvalue"`
	MinimumAmount decimal.Decimal `json:"minimumamount"`
	ValidFrom     time.Time       `json:"validfrom"`
	ValidTo       time.Time       `json:"validto"`
	Active        bool            `json:"active"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
}

// CouponResult is the outcome of resolving a code against a subtotal. When
// Valid is false, Discount is zero and FinalTotal equals the subtotal.
type CouponResult struct {
	Valid      bool            `json:"valid"`
	Code       string          `json:"code"`
	Discount   decimal.Decimal `json:"discount"`
	FinalTotal decimal.Decimal `json:"finaltotal"`
	Message    string          `json:"message,omitempty"`
}
