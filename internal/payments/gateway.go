// Package payments creates payment intents through an external processor
// and manages the flat-amount coupon codes applied at checkout.
package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway abstracts the payment processor. It receives the charge amount in
// major currency units and returns the client secret the frontend needs to
// confirm the payment.
type Gateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (clientSecret string, err error)
}
