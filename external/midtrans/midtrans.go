package midtrans

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"QuickBiteAPI/internal/model"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

// Processor wraps the snap client behind the payment-intent contract the
// checkout flow uses: mint an intent scoped to the order's final total, get
// back a token the card widget confirms against.
type Processor struct {
	Snap    *snap.Client
	Timeout time.Duration
}

func NewProcessor() *Processor {
	var client snap.Client
	client.New(
		os.Getenv("MIDTRANS_SERVER_KEY"),
		midtrans.Sandbox,
	)
	return &Processor{
		Snap:    &client,
		Timeout: 15 * time.Second,
	}
}

// MinorUnits converts a 2-decimal-place amount into the integer minor units
// the snap API's GrossAmt field carries. Anything finer than minor units
// cannot be represented and is an error, never rounded away.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s is finer than minor units", amount.String())
	}
	return shifted.IntPart(), nil
}

// CreateIntent mints a processor transaction for the order total. The snap
// API has no context support, so the call runs in a goroutine and a hung
// processor surfaces as a retryable timeout instead of hanging checkout.
func (p *Processor) CreateIntent(ctx context.Context, orderID int64, amount decimal.Decimal, email string) (*model.PaymentIntent, error) {
	gross, err := MinorUnits(amount)
	if err != nil {
		return nil, err
	}
	externalRef := fmt.Sprintf("ORDER-%d-%s", orderID, uuid.NewString())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  externalRef,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: email,
		},
	}

	type result struct {
		resp *snap.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, snapErr := p.Snap.CreateTransaction(req)
		if snapErr != nil {
			done <- result{nil, snapErr}
			return
		}
		done <- result{resp, nil}
	}()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return &model.PaymentIntent{
			OrderID:     orderID,
			Reference:   externalRef,
			Token:       r.resp.Token,
			RedirectURL: r.resp.RedirectURL,
		}, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("payment processor timed out, please retry")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// VerifySignature checks the sha512 notification signature Midtrans sends
// with every webhook.
func VerifySignature(
	orderID string,
	statusCode string,
	grossAmount string,
	signature string,
	serverKey string,
) bool {

	raw := orderID + statusCode + grossAmount + serverKey
	hash := sha512.Sum512([]byte(raw))
	expected := hex.EncodeToString(hash[:])

	return expected == signature
}
