package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/invoice/domain"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	"github.com/chapinas/facturacloud/internal/store"
)

func newTestService(t *testing.T) (domain.Service, *store.Store) {
	t.Helper()

	st, err := store.New(store.Params{
		Log:       zap.NewNop(),
		Persister: store.NewMemoryPersister(),
	})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return New(Params{Store: st, Log: zap.NewNop()}), st
}

// seedArchive installs two categories with one configuration each, a client
// with an instance per configuration, and two archived invoices.
func seedArchive(t *testing.T, st *store.Store) {
	t.Helper()

	issued := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	err := st.Update(context.Background(), func(g *store.Graph) error {
		g.Resources = append(g.Resources,
			&catalogdomain.Resource{ID: 1, Name: "vCPU", Kind: catalogdomain.KindHardware, PricePerHour: decimal.NewFromInt(2)},
			&catalogdomain.Resource{ID: 2, Name: "Licencia", Kind: catalogdomain.KindSoftware, PricePerHour: decimal.NewFromInt(1)},
		)

		computeCfg := &catalogdomain.Configuration{ID: 1, Name: "small"}
		computeCfg.SetResource(1, decimal.NewFromInt(1))
		storageCfg := &catalogdomain.Configuration{ID: 2, Name: "bucket"}
		storageCfg.SetResource(2, decimal.NewFromInt(1))
		g.Categories = append(g.Categories,
			&catalogdomain.Category{ID: 1, Name: "Compute", Workload: "General", Configurations: []*catalogdomain.Configuration{computeCfg}},
			&catalogdomain.Category{ID: 2, Name: "Storage", Workload: "Datos", Configurations: []*catalogdomain.Configuration{storageCfg}},
		)

		g.Clients = append(g.Clients, &registrydomain.Client{
			NIT:  "123456-7",
			Name: "Acme",
			Instances: []*registrydomain.Instance{
				{ID: 1, ConfigurationID: 1, Name: "web-1", StartDate: issued, State: registrydomain.StateActive},
				{ID: 2, ConfigurationID: 2, Name: "data-1", StartDate: issued, State: registrydomain.StateActive},
			},
		})

		g.AppendInvoice(&domain.Invoice{
			Number:    g.NextInvoiceNumber(),
			ClientNIT: "123456-7",
			IssuedAt:  issued,
			Total:     decimal.NewFromInt(30),
			Lines: []domain.LineItem{
				{
					InstanceID: 1, InstanceName: "web-1",
					Hours: decimal.NewFromInt(10), Amount: decimal.NewFromInt(20),
					Resources: []domain.ResourceCharge{{
						ResourceID: 1, ResourceName: "vCPU",
						Quantity: decimal.NewFromInt(1), PricePerHour: decimal.NewFromInt(2),
						Cost: decimal.NewFromInt(20),
					}},
				},
				{
					InstanceID: 2, InstanceName: "data-1",
					Hours: decimal.NewFromInt(10), Amount: decimal.NewFromInt(10),
					Resources: []domain.ResourceCharge{{
						ResourceID: 2, ResourceName: "Licencia",
						Quantity: decimal.NewFromInt(1), PricePerHour: decimal.NewFromInt(1),
						Cost: decimal.NewFromInt(10),
					}},
				},
			},
		})

		// Issued well outside the analysis range below.
		g.AppendInvoice(&domain.Invoice{
			Number:    g.NextInvoiceNumber(),
			ClientNIT: "123456-7",
			IssuedAt:  issued.AddDate(1, 0, 0),
			Total:     decimal.NewFromInt(100),
			Lines: []domain.LineItem{{
				InstanceID: 1, InstanceName: "web-1",
				Hours: decimal.NewFromInt(50), Amount: decimal.NewFromInt(100),
				Resources: []domain.ResourceCharge{{
					ResourceID: 1, ResourceName: "vCPU",
					Quantity: decimal.NewFromInt(1), PricePerHour: decimal.NewFromInt(2),
					Cost: decimal.NewFromInt(100),
				}},
			}},
		})
		return nil
	})
	if err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
}

func TestByNumber(t *testing.T) {
	svc, st := newTestService(t)
	seedArchive(t, st)

	invoice, err := svc.ByNumber(context.Background(), "FACT-000001")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !invoice.Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total 30, got %s", invoice.Total)
	}

	_, err = svc.ByNumber(context.Background(), "FACT-999999")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevenueByCategoryWithinRange(t *testing.T) {
	svc, st := newTestService(t)
	seedArchive(t, st)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// The range is inclusive on both ends; the invoice sits exactly on "to".
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	revenue, err := svc.RevenueByCategory(context.Background(), from, to)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if len(revenue) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(revenue))
	}

	// Sorted by revenue descending: Compute (20) then Storage (10).
	if revenue[0].Name != "Compute" || !revenue[0].Revenue.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected Compute with 20, got %s with %s", revenue[0].Name, revenue[0].Revenue)
	}
	if revenue[1].Name != "Storage" || !revenue[1].Revenue.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected Storage with 10, got %s with %s", revenue[1].Name, revenue[1].Revenue)
	}
	if len(revenue[0].Configurations) != 1 || revenue[0].Configurations[0].Name != "small" {
		t.Fatalf("expected configuration breakdown, got %+v", revenue[0].Configurations)
	}
}

func TestRevenueByCategoryExcludesOutOfRange(t *testing.T) {
	svc, st := newTestService(t)
	seedArchive(t, st)

	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)

	revenue, err := svc.RevenueByCategory(context.Background(), from, to)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if len(revenue) != 0 {
		t.Fatalf("expected no revenue outside range, got %+v", revenue)
	}
}

func TestRevenueByResource(t *testing.T) {
	svc, st := newTestService(t)
	seedArchive(t, st)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC)

	revenue, err := svc.RevenueByResource(context.Background(), from, to)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if len(revenue) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(revenue))
	}

	// Both invoices fall in range: vCPU earned 20+100, Licencia 10.
	if revenue[0].Name != "vCPU" || !revenue[0].Revenue.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected vCPU with 120, got %s with %s", revenue[0].Name, revenue[0].Revenue)
	}
	if revenue[0].Kind != "Hardware" {
		t.Fatalf("expected resource kind from catalog, got %q", revenue[0].Kind)
	}
	if revenue[1].Name != "Licencia" || !revenue[1].Revenue.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected Licencia with 10, got %s with %s", revenue[1].Name, revenue[1].Revenue)
	}
}
