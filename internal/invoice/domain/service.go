package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ConfigurationRevenue attributes archived revenue to one configuration.
type ConfigurationRevenue struct {
	ConfigurationID int             `json:"configuration_id"`
	Name            string          `json:"name"`
	Revenue         decimal.Decimal `json:"revenue"`
}

// CategoryRevenue aggregates a category's revenue over a date range,
// broken down by configuration.
type CategoryRevenue struct {
	CategoryID     int                    `json:"category_id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Workload       string                 `json:"workload"`
	Revenue        decimal.Decimal        `json:"revenue"`
	Configurations []ConfigurationRevenue `json:"configurations"`
}

// ResourceRevenue aggregates one resource's revenue over a date range.
type ResourceRevenue struct {
	ResourceID   int             `json:"resource_id"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	UnitMetric   string          `json:"unit_metric"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type Service interface {
	List(context.Context) ([]Invoice, error)
	ByNumber(context.Context, string) (Invoice, error)
	ByClient(context.Context, string) ([]Invoice, error)

	// RevenueByCategory re-attributes each line item's amount to the
	// category owning the instance's configuration, for invoices issued
	// inside [from, to]. Categories with zero revenue are omitted; the
	// result is sorted by revenue descending.
	RevenueByCategory(ctx context.Context, from, to time.Time) ([]CategoryRevenue, error)
	// RevenueByResource re-attributes each resource-breakdown cost to its
	// resource, for invoices issued inside [from, to]. Same conventions.
	RevenueByResource(ctx context.Context, from, to time.Time) ([]ResourceRevenue, error)
}

var ErrNotFound = errors.New("invoice_not_found")
