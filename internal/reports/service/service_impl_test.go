package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/config"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	invoiceservice "github.com/chapinas/facturacloud/internal/invoice/service"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	registryservice "github.com/chapinas/facturacloud/internal/registry/service"
	"github.com/chapinas/facturacloud/internal/reports/domain"
	"github.com/chapinas/facturacloud/internal/store"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	st, err := store.New(store.Params{
		Log:       zap.NewNop(),
		Persister: store.NewMemoryPersister(),
	})
	assert.NoError(t, err)

	issued := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	err = st.Update(context.Background(), func(g *store.Graph) error {
		g.Resources = append(g.Resources, &catalogdomain.Resource{
			ID: 1, Name: "vCPU", UnitMetric: "núcleos",
			Kind: catalogdomain.KindHardware, PricePerHour: decimal.NewFromInt(2),
		})
		cfg := &catalogdomain.Configuration{ID: 1, Name: "small"}
		cfg.SetResource(1, decimal.NewFromInt(1))
		g.Categories = append(g.Categories, &catalogdomain.Category{
			ID: 1, Name: "Compute", Workload: "General",
			Configurations: []*catalogdomain.Configuration{cfg},
		})
		g.Clients = append(g.Clients, &registrydomain.Client{
			NIT: "123456-7", Name: "Acme", Address: "Zona 10", Email: "acme@example.com",
			Instances: []*registrydomain.Instance{
				{ID: 1, ConfigurationID: 1, Name: "web-1", StartDate: issued, State: registrydomain.StateActive},
			},
		})
		g.AppendInvoice(&invoicedomain.Invoice{
			Number:    g.NextInvoiceNumber(),
			ClientNIT: "123456-7",
			IssuedAt:  issued,
			Total:     decimal.NewFromInt(20),
			Lines: []invoicedomain.LineItem{{
				InstanceID: 1, InstanceName: "web-1",
				Hours: decimal.NewFromInt(10), Amount: decimal.NewFromInt(20),
				Resources: []invoicedomain.ResourceCharge{{
					ResourceID: 1, ResourceName: "vCPU",
					Quantity: decimal.NewFromInt(1), PricePerHour: decimal.NewFromInt(2),
					Cost: decimal.NewFromInt(20),
				}},
			}},
		})
		return nil
	})
	assert.NoError(t, err)

	log := zap.NewNop()
	return New(Params{
		Config:   config.Config{},
		Invoices: invoiceservice.New(invoiceservice.Params{Store: st, Log: log}),
		Registry: registryservice.New(registryservice.Params{Store: st, Log: log}),
		Log:      log,
	})
}

func TestInvoiceDetailProducesPDF(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.InvoiceDetail(context.Background(), "FACT-000001")
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "expected a PDF document")
}

func TestInvoiceDetailUnknownNumber(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.InvoiceDetail(context.Background(), "FACT-999999")
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}

func TestSalesAnalysisProducesPDF(t *testing.T) {
	svc := newTestService(t)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	for _, kind := range []domain.AnalysisKind{domain.AnalysisCategories, domain.AnalysisResources} {
		doc, err := svc.SalesAnalysis(context.Background(), kind, from, to)
		assert.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "expected a PDF document for %s", kind)
	}
}

func TestSalesAnalysisUnknownKind(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SalesAnalysis(context.Background(), "margins", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrUnknownAnalysis)
}
