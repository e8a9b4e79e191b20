package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	PaymentID       int64           `db:"paymentid" json:"payment_id"`
	OrderID         int64           `db:"orderid" json:"order_id"`
	Method          PaymentMethod   `db:"method" json:"method"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	PaymentStatus   PaymentStatus   `db:"paymentstatus" json:"payment_status"`
	Provider        *string         `db:"provider" json:"provider,omitempty"`
	ProviderRef     *string         `db:"providerref" json:"provider_ref,omitempty"`
	ProviderPayload []byte          `db:"providerpayload" json:"-"`
	WalletPhone     *string         `db:"walletphone" json:"wallet_phone,omitempty"`
	CreatedAt       time.Time       `db:"createdat" json:"created_at"`
	PaidAt          *time.Time      `db:"paidat" json:"paid_at,omitempty"`
}

// PaymentIntent is a processor-side record authorizing capture of the
// order's final total; minted before the customer submits card details.
type PaymentIntent struct {
	OrderID     int64  `json:"orderid"`
	Reference   string `json:"reference"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}
