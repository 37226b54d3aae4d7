// Package gateway is the boundary to the third-party payment processor.
// Results come back as typed errors rather than free-text messages, so
// callers never have to substring-match error strings.
package gateway

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyRefunded is returned when the gateway reports the payment
	// was refunded before.
	ErrAlreadyRefunded = errors.New("payment already refunded")
	// ErrRefundWindowExpired is returned when the 90-day refund window has
	// passed.
	ErrRefundWindowExpired = errors.New("refund window expired")
	// ErrUnavailable covers any other gateway failure.
	ErrUnavailable = errors.New("gateway unavailable")
)

// Client performs operations against the payment gateway using the caller's
// own credential (multi-tenant: one credential per user).
type Client interface {
	Refund(ctx context.Context, credential string, chargeID uint) error
}

type client struct{}

// NewClient returns the gateway client.
//
// TODO: wire the real processor API once charge submission leaves the stub
// stage; refunds currently acknowledge locally without a remote call.
func NewClient() Client {
	return &client{}
}

func (c *client) Refund(ctx context.Context, credential string, chargeID uint) error {
	return nil
}
