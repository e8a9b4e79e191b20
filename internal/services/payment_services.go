package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mt "QuickBiteAPI/external/midtrans"
	"QuickBiteAPI/internal/model"
	"QuickBiteAPI/internal/repository"

	"github.com/shopspring/decimal"
)

// ValidationReason is the typed cause of a payment-detail rejection. The
// endpoints map each reason to a user-facing message; none of these ever
// reach the backend as a request.
type ValidationReason string

const (
	ReasonMissingAddress   ValidationReason = "missing_address"
	ReasonMissingMethod    ValidationReason = "missing_method"
	ReasonWidgetNotReady   ValidationReason = "widget_not_ready"
	ReasonMissingPhone     ValidationReason = "missing_phone"
	ReasonInsufficientCash ValidationReason = "insufficient_cash"
)

type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingAddress:
		return "delivery address is required"
	case ReasonMissingMethod:
		return "select a payment method"
	case ReasonWidgetNotReady:
		return "card form is not ready yet, please wait"
	case ReasonMissingPhone:
		return "wallet contact number is required"
	case ReasonInsufficientCash:
		return "cash amount must cover the order total"
	}
	return "invalid payment details"
}

// PaymentDetails is everything collected at the detail-entry checkout step.
type PaymentDetails struct {
	Method          model.PaymentMethod `json:"method"`
	DeliveryAddress string              `json:"deliveryaddress"`
	CardWidgetReady bool                `json:"cardwidgetready"`
	WalletPhone     string              `json:"walletphone,omitempty"`
	CashReceived    decimal.Decimal     `json:"cashreceived,omitempty"`
}

// ValidateDetails runs the per-method validation procedure against the
// order's final total. The switch is exhaustive over the payment methods:
// adding a method means adding a case here.
func ValidateDetails(d PaymentDetails, total decimal.Decimal) error {
	if d.DeliveryAddress == "" {
		return &ValidationError{Reason: ReasonMissingAddress}
	}
	switch d.Method {
	case model.MethodCard:
		if !d.CardWidgetReady {
			return &ValidationError{Reason: ReasonWidgetNotReady}
		}
		return nil
	case model.MethodWallet:
		if d.WalletPhone == "" {
			return &ValidationError{Reason: ReasonMissingPhone}
		}
		return nil
	case model.MethodCash:
		if d.CashReceived.LessThan(total) {
			return &ValidationError{Reason: ReasonInsufficientCash}
		}
		return nil
	}
	return &ValidationError{Reason: ReasonMissingMethod}
}

// IntentMinter mints a processor payment intent scoped to an order total.
// Satisfied by the midtrans processor adapter.
type IntentMinter interface {
	CreateIntent(ctx context.Context, orderID int64, amount decimal.Decimal, email string) (*model.PaymentIntent, error)
}

type PaymentService struct {
	PaymentRepo *repository.PaymentRepository
	OrderRepo   *repository.OrderRepository
	Intents     IntentMinter
}

func NewPaymentService(
	pr *repository.PaymentRepository,
	or *repository.OrderRepository,
	intents IntentMinter,
) *PaymentService {
	return &PaymentService{
		PaymentRepo: pr,
		OrderRepo:   or,
		Intents:     intents,
	}
}

// intentEligible reports whether a card intent may still be minted for the
// order: only a pending, unpaid card order is awaiting payment. Once a
// courier has the order, or it is paid or terminal, re-minting is refused.
func intentEligible(o *model.Order) error {
	if o.PaymentMethod != model.MethodCard {
		return errors.New("order is not a card order")
	}
	if o.PaymentStatus == model.PaymentPaid {
		return errors.New("order already paid")
	}
	if o.OrderStatus != model.StatusPending {
		return errors.New("order is no longer awaiting payment")
	}
	return nil
}

// CreateIntent mints (or re-mints, on retry) a card payment intent for an
// existing order. The order is reused as-is: retrying a failed confirmation
// never creates a second order.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID, customerID int64, email string) (*model.PaymentIntent, error) {
	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.CustomerID != customerID {
		return nil, errors.New("forbidden")
	}
	if err := intentEligible(order); err != nil {
		return nil, err
	}

	intent, err := s.Intents.CreateIntent(ctx, order.OrderID, order.Total, email)
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(intent)
	if _, err := s.PaymentRepo.CreateCardPending(
		ctx, order.OrderID, order.Total, "midtrans", intent.Reference, payload,
	); err != nil {
		return nil, err
	}
	return intent, nil
}

// grossAmountMatches compares the processor's reported amount with the
// order total. Intents are minted in minor units, so the comparison runs
// against the shifted total.
func grossAmountMatches(grossAmount string, total decimal.Decimal) bool {
	gross, err := decimal.NewFromString(grossAmount)
	if err != nil {
		return false
	}
	return gross.Equal(total.Shift(2))
}

// transactionOutcome classifies a processor notification.
type transactionOutcome int

const (
	outcomeIgnore transactionOutcome = iota
	outcomePaid
	outcomeFailed
)

// classifyTransaction maps the processor's transaction/fraud status pair to
// what it means for the order. "capture" only counts when fraud screening
// accepted it.
func classifyTransaction(transactionStatus, fraudStatus string) transactionOutcome {
	switch transactionStatus {
	case "settlement":
		return outcomePaid
	case "capture":
		if fraudStatus == "accept" {
			return outcomePaid
		}
		return outcomeIgnore
	case "expire", "cancel", "deny":
		return outcomeFailed
	}
	return outcomeIgnore
}

// HandleProcessorNotification consumes the card processor's webhook: verify
// the signature, then settle or fail the payment attempt. Settlement is
// idempotent on the order's payment status; a failed attempt leaves the
// order itself pending and unpaid so the customer can retry against it.
func (s *PaymentService) HandleProcessorNotification(ctx context.Context, payload map[string]interface{}) error {
	orderIDStr, ok := payload["order_id"].(string)
	if !ok {
		return errors.New("missing order_id")
	}

	// Extract internal order ID from ORDER-{id}-UUID
	var orderID int64
	if _, err := fmt.Sscanf(orderIDStr, "ORDER-%d-", &orderID); err != nil {
		return errors.New("invalid order reference")
	}

	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.PaymentStatus == model.PaymentPaid {
		// already processed, safely ignore
		return nil
	}

	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)

	if !mt.VerifySignature(
		orderIDStr,
		statusCode,
		grossAmount,
		signature,
		os.Getenv("MIDTRANS_SERVER_KEY"),
	) {
		return errors.New("invalid signature")
	}

	// A valid signature over the wrong amount is still the wrong payment.
	if !grossAmountMatches(grossAmount, order.Total) {
		return errors.New("amount does not match order total")
	}

	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)

	switch classifyTransaction(transactionStatus, fraudStatus) {
	case outcomePaid:
		return s.finalizePayment(ctx, orderID, payload)
	case outcomeFailed:
		data, _ := json.Marshal(payload)
		return s.PaymentRepo.MarkFailed(ctx, orderID, data)
	}
	return nil
}

// finalizePayment marks the payment attempt and the order paid in one
// transaction.
func (s *PaymentService) finalizePayment(ctx context.Context, orderID int64, payload map[string]interface{}) error {
	providerRef, _ := payload["transaction_id"].(string)
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	tx, err := s.PaymentRepo.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.PaymentRepo.MarkPaidTx(ctx, tx, orderID, providerRef, rawPayload); err != nil {
		return err
	}
	if err := s.OrderRepo.MarkPaidTx(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
