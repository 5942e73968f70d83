// Package domain contains the consumption ledger models: the append-only
// record of metered usage events that feeds the billing engine.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one metered usage event against an instance. Records are never
// deleted; the only mutation ever applied is the billed flag flip performed
// by a committed billing run.
type Record struct {
	ID         int64           `json:"id"`
	ClientNIT  string          `json:"client_nit"`
	InstanceID int             `json:"instance_id"`
	Hours      decimal.Decimal `json:"hours"`
	RecordedAt time.Time       `json:"recorded_at"`
	Billed     bool            `json:"billed"`
}
