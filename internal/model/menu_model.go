package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   int64           `json:"productid"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category,omitempty"`
	Available   bool            `json:"available"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}

// ProductOption is a customization a customer can add to a product.
type ProductOption struct {
	OptionID        int64           `json:"optionid"`
	ProductID       int64           `json:"productid"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additionalprice"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}
