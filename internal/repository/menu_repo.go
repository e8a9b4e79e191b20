package repository

import (
	"context"
	"errors"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type MenuRepository struct {
	DB *pgxpool.Pool
}

func NewMenuRepository(db *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{DB: db}
}

// ListAvailableProducts returns the browsable menu.
func (r *MenuRepository) ListAvailableProducts(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT productid, name, description, price, category, available, created_at, deleted_at
		FROM products WHERE available AND deleted_at IS NULL ORDER BY category, name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Description, &p.Price,
			&p.Category, &p.Available, &p.CreatedAt, &p.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProduct returns one available product.
func (r *MenuRepository) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	var p model.Product
	query := `
		SELECT productid, name, description, price, category, available, created_at, deleted_at
		FROM products WHERE productid=$1 AND deleted_at IS NULL
	`
	if err := r.DB.QueryRow(ctx, query, productID).Scan(&p.ProductID, &p.Name, &p.Description,
		&p.Price, &p.Category, &p.Available, &p.CreatedAt, &p.DeletedAt); err != nil {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

// ListOptions returns the customization options for a product.
func (r *MenuRepository) ListOptions(ctx context.Context, productID int64) ([]model.ProductOption, error) {
	query := `
		SELECT optionid, productid, name, additionalprice, created_at, deleted_at
		FROM productoptions WHERE productid=$1 AND deleted_at IS NULL ORDER BY optionid
	`
	rows, err := r.DB.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ProductOption{}
	for rows.Next() {
		var o model.ProductOption
		if err := rows.Scan(&o.OptionID, &o.ProductID, &o.Name, &o.AdditionalPrice,
			&o.CreatedAt, &o.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreateProduct inserts a menu item (admin only).
func (r *MenuRepository) CreateProduct(ctx context.Context, name string, description *string, price decimal.Decimal, category *string) (int64, error) {
	var id int64
	query := `
		INSERT INTO products (name, description, price, category, available, created_at)
		VALUES ($1, $2, $3, $4, true, $5)
		RETURNING productid
	`
	if err := r.DB.QueryRow(ctx, query, name, description, price, category, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// SetAvailability toggles a product on or off the menu.
func (r *MenuRepository) SetAvailability(ctx context.Context, productID int64, available bool) error {
	query := `UPDATE products SET available=$2 WHERE productid=$1 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, productID, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found")
	}
	return nil
}

// CreateOption adds a customization option to a product (admin only).
func (r *MenuRepository) CreateOption(ctx context.Context, productID int64, name string, additionalPrice decimal.Decimal) (int64, error) {
	var id int64
	query := `
		INSERT INTO productoptions (productid, name, additionalprice, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING optionid
	`
	if err := r.DB.QueryRow(ctx, query, productID, name, additionalPrice, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
