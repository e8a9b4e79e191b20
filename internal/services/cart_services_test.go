package services

import (
	"testing"

	"QuickBiteAPI/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burger(qty int, opts ...model.CartOption) model.CartItem {
	return model.CartItem{
		ProductID:       1,
		Name:            "Burger",
		UnitPrice:       decimal.NewFromFloat(8.50),
		Quantity:        qty,
		SelectedOptions: opts,
	}
}

func TestCartAddItemMergesSameLine(t *testing.T) {
	s := NewCartService()
	cheese := model.CartOption{OptionID: 1, Name: "Extra cheese", AdditionalPrice: decimal.NewFromFloat(1.00)}

	require.NoError(t, s.AddItem(10, burger(2, cheese)))
	require.NoError(t, s.AddItem(10, burger(3, cheese)))

	cart := s.Get(10)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartAddItemDifferentOptionsNewLine(t *testing.T) {
	s := NewCartService()
	cheese := model.CartOption{OptionID: 1, AdditionalPrice: decimal.NewFromFloat(1.00)}
	bacon := model.CartOption{OptionID: 2, AdditionalPrice: decimal.NewFromFloat(1.50)}

	require.NoError(t, s.AddItem(10, burger(1, cheese)))
	require.NoError(t, s.AddItem(10, burger(1, bacon)))
	require.NoError(t, s.AddItem(10, burger(1)))

	cart := s.Get(10)
	assert.Len(t, cart.Items, 3)
	assert.Equal(t, 3, cart.ItemCount)
}

func TestCartAddItemOptionOrderIrrelevant(t *testing.T) {
	s := NewCartService()
	cheese := model.CartOption{OptionID: 1, AdditionalPrice: decimal.NewFromFloat(1.00)}
	bacon := model.CartOption{OptionID: 2, AdditionalPrice: decimal.NewFromFloat(1.50)}

	require.NoError(t, s.AddItem(10, burger(1, cheese, bacon)))
	require.NoError(t, s.AddItem(10, burger(1, bacon, cheese)))

	cart := s.Get(10)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartQuantityClamp(t *testing.T) {
	s := NewCartService()

	// A single oversized add clamps silently.
	require.NoError(t, s.AddItem(10, burger(150)))
	assert.Equal(t, model.MaxLineQuantity, s.Get(10).Items[0].Quantity)

	// A merge that would overflow clamps to the cap and reports it.
	s.Clear(10)
	require.NoError(t, s.AddItem(10, burger(90)))
	err := s.AddItem(10, burger(20))
	assert.ErrorIs(t, err, ErrQuantityLimit)
	assert.Equal(t, model.MaxLineQuantity, s.Get(10).Items[0].Quantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	s := NewCartService()
	require.NoError(t, s.AddItem(10, burger(2)))

	require.NoError(t, s.UpdateQuantity(10, 1, "", 7))
	assert.Equal(t, 7, s.Get(10).Items[0].Quantity)

	require.NoError(t, s.UpdateQuantity(10, 1, "", 500))
	assert.Equal(t, model.MaxLineQuantity, s.Get(10).Items[0].Quantity)

	// Zero removes the line.
	require.NoError(t, s.UpdateQuantity(10, 1, "", 0))
	assert.Empty(t, s.Get(10).Items)

	assert.ErrorIs(t, s.UpdateQuantity(10, 1, "", 3), ErrLineNotFound)
}

func TestCartSubtotalRecomputed(t *testing.T) {
	s := NewCartService()
	cheese := model.CartOption{OptionID: 1, AdditionalPrice: decimal.NewFromFloat(1.00)}

	// 2 * (8.50 + 1.00) = 19.00
	require.NoError(t, s.AddItem(10, burger(2, cheese)))
	assert.True(t, s.Subtotal(10).Equal(decimal.NewFromFloat(19.00)))

	// 19.00 + 3 * 8.50 = 44.50
	require.NoError(t, s.AddItem(10, burger(3)))
	assert.True(t, s.Subtotal(10).Equal(decimal.NewFromFloat(44.50)))
	assert.Equal(t, 5, s.TotalItemCount(10))

	// Dropping a line drops its contribution on the next read.
	require.NoError(t, s.RemoveItem(10, 1, "1"))
	assert.True(t, s.Subtotal(10).Equal(decimal.NewFromFloat(25.50)))
}

func TestCartGetReturnsCopies(t *testing.T) {
	s := NewCartService()
	cheese := model.CartOption{OptionID: 1, AdditionalPrice: decimal.NewFromFloat(1.00)}
	require.NoError(t, s.AddItem(10, burger(2, cheese)))

	snap := s.Get(10)
	snap.Items[0].Quantity = 50
	snap.Items[0].SelectedOptions[0].AdditionalPrice = decimal.NewFromInt(999)

	fresh := s.Get(10)
	assert.Equal(t, 2, fresh.Items[0].Quantity)
	assert.True(t, fresh.Items[0].SelectedOptions[0].AdditionalPrice.Equal(decimal.NewFromFloat(1.00)))
}

func TestCartsAreIsolatedPerCustomer(t *testing.T) {
	s := NewCartService()
	require.NoError(t, s.AddItem(10, burger(1)))
	require.NoError(t, s.AddItem(11, burger(4)))

	assert.Equal(t, 1, s.TotalItemCount(10))
	assert.Equal(t, 4, s.TotalItemCount(11))

	s.Clear(10)
	assert.Equal(t, 0, s.TotalItemCount(10))
	assert.Equal(t, 4, s.TotalItemCount(11))
}

func TestCartAddItemDefaultsQuantity(t *testing.T) {
	s := NewCartService()
	require.NoError(t, s.AddItem(10, burger(0)))
	assert.Equal(t, 1, s.Get(10).Items[0].Quantity)

	assert.Error(t, s.AddItem(10, model.CartItem{}))
}
