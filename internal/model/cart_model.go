package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps how many units of one line a customer may order.
const MaxLineQuantity = 99

// CartOption is one selected customization on a cart line.
type CartOption struct {
	OptionID        int64           `json:"optionid"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additionalprice"`
}

// CartItem is one line in a customer's cart. Two entries are the same line
// iff productid matches and the selected option sets are identical.
type CartItem struct {
	ProductID       int64           `json:"productid"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitprice"`
	Quantity        int             `json:"quantity"`
	SelectedOptions []CartOption    `json:"selectedoptions,omitempty"`
}

// OptionsKey is the canonical identity of the selected option set: sorted
// option ids joined with "-". Order of selection does not matter.
func (it CartItem) OptionsKey() string {
	if len(it.SelectedOptions) == 0 {
		return ""
	}
	ids := make([]int64, 0, len(it.SelectedOptions))
	for _, o := range it.SelectedOptions {
		ids = append(ids, o.OptionID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "-")
}

// OptionsPrice sums the selected options' additional prices.
func (it CartItem) OptionsPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, o := range it.SelectedOptions {
		sum = sum.Add(o.AdditionalPrice)
	}
	return sum
}

// LineTotal is (unitprice + optionsprice) * quantity.
func (it CartItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Add(it.OptionsPrice()).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// CartResponse is returned when calling GET /cart.
type CartResponse struct {
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemcount"`
}
