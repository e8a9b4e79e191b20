package services

import (
	"context"
	"errors"

	"QuickBiteAPI/internal/model"
	"QuickBiteAPI/internal/repository"

	"github.com/shopspring/decimal"
)

type MenuService struct {
	Repo *repository.MenuRepository
}

func NewMenuService(r *repository.MenuRepository) *MenuService {
	return &MenuService{Repo: r}
}

func (s *MenuService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.Repo.ListAvailableProducts(ctx)
}

func (s *MenuService) ListOptions(ctx context.Context, productID int64) ([]model.ProductOption, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.Repo.ListOptions(ctx, productID)
}

// BuildCartItem resolves a product and a set of option ids into a cart line
// with current catalog prices. The cart stores these prices; once an order
// snapshots them they are frozen there.
func (s *MenuService) BuildCartItem(ctx context.Context, productID int64, optionIDs []int64, qty int) (*model.CartItem, error) {
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Available {
		return nil, errors.New("product is not available")
	}

	item := &model.CartItem{
		ProductID: p.ProductID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	}
	if len(optionIDs) == 0 {
		return item, nil
	}

	opts, err := s.Repo.ListOptions(ctx, productID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.ProductOption, len(opts))
	for _, o := range opts {
		byID[o.OptionID] = o
	}
	for _, id := range optionIDs {
		o, ok := byID[id]
		if !ok {
			return nil, errors.New("unknown customization option")
		}
		item.SelectedOptions = append(item.SelectedOptions, model.CartOption{
			OptionID:        o.OptionID,
			Name:            o.Name,
			AdditionalPrice: o.AdditionalPrice,
		})
	}
	return item, nil
}

// CreateProduct adds a menu item (admin).
func (s *MenuService) CreateProduct(ctx context.Context, name string, description *string, price decimal.Decimal, category *string) (int64, error) {
	if name == "" {
		return 0, errors.New("name is required")
	}
	if price.IsNegative() {
		return 0, errors.New("price must not be negative")
	}
	return s.Repo.CreateProduct(ctx, name, description, price, category)
}

// CreateOption adds a customization option to a product (admin).
func (s *MenuService) CreateOption(ctx context.Context, productID int64, name string, additionalPrice decimal.Decimal) (int64, error) {
	if name == "" {
		return 0, errors.New("name is required")
	}
	if additionalPrice.IsNegative() {
		return 0, errors.New("additional price must not be negative")
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.Repo.CreateOption(ctx, productID, name, additionalPrice)
}

// SetAvailability toggles a product on or off the menu (admin).
func (s *MenuService) SetAvailability(ctx context.Context, productID int64, available bool) error {
	return s.Repo.SetAvailability(ctx, productID, available)
}
