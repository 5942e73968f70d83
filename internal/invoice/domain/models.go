// Package domain contains the invoice archive models. Invoices are immutable
// once appended; every amount on them is final.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResourceCharge is one resource-breakdown entry of an invoice line item.
type ResourceCharge struct {
	ResourceID   int             `json:"resource_id"`
	ResourceName string          `json:"resource_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
	Cost         decimal.Decimal `json:"cost"`
}

// LineItem bills one instance: the hours consumed in the run, the amount,
// and the per-resource breakdown in configuration order.
type LineItem struct {
	InstanceID   int              `json:"instance_id"`
	InstanceName string           `json:"instance_name"`
	Hours        decimal.Decimal  `json:"hours"`
	Amount       decimal.Decimal  `json:"amount"`
	Resources    []ResourceCharge `json:"resources"`
}

// Invoice is a numbered, immutable bill for one client.
type Invoice struct {
	Number    string          `json:"number"`
	ClientNIT string          `json:"client_nit"`
	IssuedAt  time.Time       `json:"issued_at"`
	Total     decimal.Decimal `json:"total"`
	Lines     []LineItem      `json:"lines"`
}
