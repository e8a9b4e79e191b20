package services

import (
	"context"
	"errors"

	"QuickBiteAPI/internal/model"
)

// OrderStore is what the lifecycle service needs from order storage.
// Satisfied by repository.OrderRepository, whose conditional UPDATEs make
// each transition authoritative.
type OrderStore interface {
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListAvailableForCourier(ctx context.Context) ([]model.Order, error)
	ListByCourier(ctx context.Context, courierID int64) ([]model.Order, error)
	Accept(ctx context.Context, orderID, courierID int64) error
	Release(ctx context.Context, orderID, courierID int64) error
	CancelByCustomer(ctx context.Context, orderID, customerID int64) error
	MarkPreparing(ctx context.Context, orderID int64) error
	StartDelivery(ctx context.Context, orderID, courierID int64) error
	ReportProblem(ctx context.Context, orderID, courierID int64, detail string) error
	ConfirmCashCustomer(ctx context.Context, orderID, customerID int64) error
	ConfirmCashCourier(ctx context.Context, orderID, courierID int64) error
	MarkDelivered(ctx context.Context, orderID, courierID int64) error
}

// OrderService owns the order lifecycle. Both actors mutate the same
// persisted order from independent sessions, so every transition is checked
// twice: the model guard gives the actor a precise refusal against its last
// fetched snapshot, and the repository's conditional UPDATE is the
// authoritative check against current state. Pollers always receive full
// snapshots; nothing here merges stale fields over fresh ones.
type OrderService struct {
	Repo OrderStore
}

func NewOrderService(r OrderStore) *OrderService {
	return &OrderService{Repo: r}
}

// ===========================
// CUSTOMER SIDE
// ===========================

func (s *OrderService) ListForCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}

func (s *OrderService) GetForCustomer(ctx context.Context, orderID, customerID int64) (*model.Order, error) {
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, errors.New("forbidden")
	}
	return o, nil
}

// CancelByCustomer cancels an order the couriers have not touched yet.
func (s *OrderService) CancelByCustomer(ctx context.Context, orderID, customerID int64) error {
	o, err := s.GetForCustomer(ctx, orderID, customerID)
	if err != nil {
		return err
	}
	if err := o.CanCancelByCustomer(); err != nil {
		return err
	}
	return s.Repo.CancelByCustomer(ctx, orderID, customerID)
}

// ConfirmCashCustomer records the customer's half of the cash handover.
func (s *OrderService) ConfirmCashCustomer(ctx context.Context, orderID, customerID int64) error {
	o, err := s.GetForCustomer(ctx, orderID, customerID)
	if err != nil {
		return err
	}
	if err := o.CanConfirmCashCustomer(customerID); err != nil {
		return err
	}
	return s.Repo.ConfirmCashCustomer(ctx, orderID, customerID)
}

// ===========================
// COURIER SIDE
// ===========================

// ListAvailable returns the pool of unclaimed pending orders. An order that
// vanished from the pool between two polls was taken by another courier.
func (s *OrderService) ListAvailable(ctx context.Context) ([]model.Order, error) {
	return s.Repo.ListAvailableForCourier(ctx)
}

func (s *OrderService) ListForCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	return s.Repo.ListByCourier(ctx, courierID)
}

// Accept claims a pending order. Concurrent accepts resolve to at most one
// winner; the loser gets ErrOrderTaken and should refresh its list.
func (s *OrderService) Accept(ctx context.Context, orderID, courierID int64) error {
	return s.Repo.Accept(ctx, orderID, courierID)
}

// Release hands the order back to the pool.
func (s *OrderService) Release(ctx context.Context, orderID, courierID int64) error {
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.CanRelease(courierID); err != nil {
		return err
	}
	return s.Repo.Release(ctx, orderID, courierID)
}

// StartDelivery puts the courier on the road.
func (s *OrderService) StartDelivery(ctx context.Context, orderID, courierID int64) error {
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.CanStartDelivery(courierID); err != nil {
		return err
	}
	return s.Repo.StartDelivery(ctx, orderID, courierID)
}

// ReportProblem stores the courier's problem note; the order state does not
// change.
func (s *OrderService) ReportProblem(ctx context.Context, orderID, courierID int64, detail string) error {
	if detail == "" {
		return errors.New("problem detail is required")
	}
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.CanReportProblem(courierID); err != nil {
		return err
	}
	return s.Repo.ReportProblem(ctx, orderID, courierID, detail)
}

// ConfirmCashCourier records the courier's half of the cash handover; the
// customer must have confirmed first.
func (s *OrderService) ConfirmCashCourier(ctx context.Context, orderID, courierID int64) error {
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.CanConfirmCashCourier(courierID); err != nil {
		return err
	}
	return s.Repo.ConfirmCashCourier(ctx, orderID, courierID)
}

// Deliver completes the order. A cash order that has not been confirmed by
// both parties is refused here and again by the repository's UPDATE guard.
func (s *OrderService) Deliver(ctx context.Context, orderID, courierID int64) error {
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.CanDeliver(courierID); err != nil {
		return err
	}
	return s.Repo.MarkDelivered(ctx, orderID, courierID)
}

// ===========================
// ADMIN SIDE
// ===========================

// MarkPreparing flags the kitchen as working on an accepted order.
func (s *OrderService) MarkPreparing(ctx context.Context, orderID int64) error {
	return s.Repo.MarkPreparing(ctx, orderID)
}
