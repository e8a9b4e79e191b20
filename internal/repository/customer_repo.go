package repository

import (
	"context"
	"errors"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// Create inserts the customer profile row for a new auth account.
func (r *CustomerRepository) Create(ctx context.Context, authID int64, email string) (int64, error) {
	var id int64
	query := `INSERT INTO customers (authid, email, created_at) VALUES ($1, $2, $3) RETURNING customerid`
	if err := r.DB.QueryRow(ctx, query, authID, email, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByAuthID resolves the profile for the authenticated user.
func (r *CustomerRepository) GetByAuthID(ctx context.Context, authID int64) (*model.Customer, error) {
	var c model.Customer
	query := `
		SELECT customerid, authid, fullname, email, address, phone, created_at, deleted_at
		FROM customers WHERE authid=$1 AND deleted_at IS NULL
	`
	if err := r.DB.QueryRow(ctx, query, authID).Scan(&c.CustomerID, &c.AuthID, &c.Fullname,
		&c.Email, &c.Address, &c.Phone, &c.CreatedAt, &c.DeletedAt); err != nil {
		return nil, errors.New("customer not found")
	}
	return &c, nil
}

// UpdateProfile sets the deliverable fields of the customer profile.
func (r *CustomerRepository) UpdateProfile(ctx context.Context, authID int64, fullname, address, phone *string) error {
	query := `
		UPDATE customers SET
			fullname = COALESCE($2, fullname),
			address  = COALESCE($3, address),
			phone    = COALESCE($4, phone)
		WHERE authid=$1 AND deleted_at IS NULL
	`
	tag, err := r.DB.Exec(ctx, query, authID, fullname, address, phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("customer not found")
	}
	return nil
}
