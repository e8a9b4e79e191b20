package services

import (
	"context"

	"QuickBiteAPI/internal/model"
	"QuickBiteAPI/internal/repository"
)

type CustomerService struct {
	Repo *repository.CustomerRepository
}

func NewCustomerService(r *repository.CustomerRepository) *CustomerService {
	return &CustomerService{Repo: r}
}

// Resolve maps the authenticated user to their customer profile.
func (s *CustomerService) Resolve(ctx context.Context, authID int64) (*model.Customer, error) {
	return s.Repo.GetByAuthID(ctx, authID)
}

func (s *CustomerService) UpdateProfile(ctx context.Context, authID int64, fullname, address, phone *string) error {
	return s.Repo.UpdateProfile(ctx, authID, fullname, address, phone)
}
