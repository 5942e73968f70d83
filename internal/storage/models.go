// Package storage implements the store.Persister contract on a relational
// database through gorm. Each flush rewrites the full snapshot in one
// transaction; the tables are owned end-to-end by this package and carry
// explicit position columns so insertion order survives the round trip.
package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type resourceRow struct {
	Position     int    `gorm:"not null"`
	ID           int    `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Abbreviation string
	UnitMetric   string
	Kind         string          `gorm:"not null"`
	PricePerHour decimal.Decimal `gorm:"type:numeric;not null"`
}

func (resourceRow) TableName() string { return "resources" }

type categoryRow struct {
	Position    int    `gorm:"not null"`
	ID          int    `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Workload    string
}

func (categoryRow) TableName() string { return "categories" }

type configurationRow struct {
	Position    int    `gorm:"not null"`
	ID          int    `gorm:"primaryKey"`
	CategoryID  int    `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
}

func (configurationRow) TableName() string { return "configurations" }

type configurationResourceRow struct {
	ConfigurationID int             `gorm:"primaryKey"`
	Position        int             `gorm:"primaryKey"`
	ResourceID      int             `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:numeric;not null"`
}

func (configurationResourceRow) TableName() string { return "configuration_resources" }

type clientRow struct {
	Position      int    `gorm:"not null"`
	NIT           string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Username      string
	AccessKeyHash string
	Address       string
	Email         string
}

func (clientRow) TableName() string { return "clients" }

type instanceRow struct {
	Position        int    `gorm:"not null"`
	ID              int    `gorm:"primaryKey"`
	ClientNIT       string `gorm:"not null;index"`
	ConfigurationID int    `gorm:"not null"`
	Name            string
	StartDate       time.Time `gorm:"not null"`
	State           string    `gorm:"not null"`
	EndDate         *time.Time
}

func (instanceRow) TableName() string { return "instances" }

type consumptionRow struct {
	ID         int64           `gorm:"primaryKey"`
	ClientNIT  string          `gorm:"not null;index"`
	InstanceID int             `gorm:"not null;index"`
	Hours      decimal.Decimal `gorm:"type:numeric;not null"`
	RecordedAt time.Time       `gorm:"not null"`
	Billed     bool            `gorm:"not null"`
}

func (consumptionRow) TableName() string { return "consumption_records" }

type invoiceRow struct {
	Position  int             `gorm:"not null"`
	Number    string          `gorm:"primaryKey"`
	ClientNIT string          `gorm:"not null;index"`
	IssuedAt  time.Time       `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:numeric;not null"`
}

func (invoiceRow) TableName() string { return "invoices" }

type invoiceLineRow struct {
	InvoiceNumber string `gorm:"primaryKey"`
	Position      int    `gorm:"primaryKey"`
	InstanceID    int    `gorm:"not null"`
	InstanceName  string
	Hours         decimal.Decimal `gorm:"type:numeric;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null"`
}

func (invoiceLineRow) TableName() string { return "invoice_lines" }

type invoiceChargeRow struct {
	InvoiceNumber string          `gorm:"primaryKey"`
	LinePosition  int             `gorm:"primaryKey"`
	Position      int             `gorm:"primaryKey"`
	ResourceID    int             `gorm:"not null"`
	ResourceName  string
	Quantity      decimal.Decimal `gorm:"type:numeric;not null"`
	PricePerHour  decimal.Decimal `gorm:"type:numeric;not null"`
	Cost          decimal.Decimal `gorm:"type:numeric;not null"`
}

func (invoiceChargeRow) TableName() string { return "invoice_charges" }

type counterRow struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null"`
}

func (counterRow) TableName() string { return "counters" }

const (
	counterInvoiceSeq    = "next_invoice_seq"
	counterConsumptionID = "next_consumption_id"
)
