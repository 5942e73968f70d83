// Package domain declares the billing engine contract.
package domain

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
)

type Service interface {
	// Run converts every currently-unbilled consumption record into
	// invoices, one per client with a positive total, and marks the
	// billed records. The period bounds the invoice issue date and the
	// sales-analysis views; it does not filter which consumption is
	// billed, all unbilled records are always eligible.
	Run(ctx context.Context, periodStart, periodEnd time.Time) ([]invoicedomain.Invoice, error)
}

var ErrInvalidPeriod = errors.New("invalid_billing_period")
