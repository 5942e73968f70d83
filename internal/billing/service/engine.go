package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chapinas/facturacloud/internal/billing/domain"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
	"github.com/chapinas/facturacloud/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RunObserver is notified about completed billing runs. Wired to prometheus
// counters by the metrics package.
type RunObserver interface {
	RunCompleted(invoices int)
}

type Params struct {
	fx.In

	Store    *store.Store
	Log      *zap.Logger
	Observer RunObserver `optional:"true"`
}

type Service struct {
	store    *store.Store
	log      *zap.Logger
	observer RunObserver
}

func New(p Params) domain.Service {
	return &Service{
		store:    p.Store,
		log:      p.Log.Named("billing.engine"),
		observer: p.Observer,
	}
}

// Run walks clients in registry order and bills each one's unbilled
// consumption. The whole run executes under a single store update, so
// number allocation, invoice archiving and billed-flag flips commit
// together or not at all.
func (s *Service) Run(ctx context.Context, periodStart, periodEnd time.Time) ([]invoicedomain.Invoice, error) {
	if periodStart.IsZero() || periodEnd.IsZero() {
		return nil, domain.ErrInvalidPeriod
	}
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: end %s precedes start %s", domain.ErrInvalidPeriod,
			periodEnd.Format("02/01/2006"), periodStart.Format("02/01/2006"))
	}

	var generated []invoicedomain.Invoice
	err := s.store.Update(ctx, func(g *store.Graph) error {
		for _, client := range g.Clients {
			unbilled := g.UnbilledByClient(client.NIT)
			if len(unbilled) == 0 {
				continue
			}
			if inv := s.billClient(g, client.NIT, unbilled, periodEnd); inv != nil {
				generated = append(generated, *inv)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("billing run completed",
		zap.Int("invoices", len(generated)),
		zap.Time("period_start", periodStart),
		zap.Time("period_end", periodEnd),
	)
	if s.observer != nil {
		s.observer.RunCompleted(len(generated))
	}
	return generated, nil
}

// billClient prices one client's unbilled records. If the total comes out
// positive it archives an invoice and marks every fetched record billed;
// otherwise nothing changes and the records stay eligible for a later run.
func (s *Service) billClient(g *store.Graph, nit string, unbilled []*ledgerdomain.Record, issuedAt time.Time) *invoicedomain.Invoice {
	client := g.ClientByNIT(nit)
	if client == nil {
		return nil
	}

	// Group records by instance, preserving first-encounter order.
	order := make([]int, 0, len(unbilled))
	groups := make(map[int][]*ledgerdomain.Record)
	for _, r := range unbilled {
		if _, seen := groups[r.InstanceID]; !seen {
			order = append(order, r.InstanceID)
		}
		groups[r.InstanceID] = append(groups[r.InstanceID], r)
	}

	total := decimal.Zero
	var lines []invoicedomain.LineItem
	for _, instanceID := range order {
		instance := client.InstanceByID(instanceID)
		if instance == nil {
			// Should not happen while the registry invariants hold, but a
			// dangling group must not abort billing for everyone else.
			s.log.Warn("skipping consumption group: instance missing",
				zap.String("client_nit", nit), zap.Int("instance_id", instanceID))
			continue
		}
		configuration := g.ConfigurationByID(instance.ConfigurationID)
		if configuration == nil {
			s.log.Warn("skipping consumption group: configuration missing",
				zap.String("client_nit", nit),
				zap.Int("instance_id", instanceID),
				zap.Int("configuration_id", instance.ConfigurationID))
			continue
		}

		hours := decimal.Zero
		for _, r := range groups[instanceID] {
			hours = hours.Add(r.Hours)
		}

		amount := decimal.Zero
		var charges []invoicedomain.ResourceCharge
		for _, rq := range configuration.Resources {
			resource := g.ResourceByID(rq.ResourceID)
			if resource == nil {
				s.log.Warn("skipping breakdown entry: resource missing",
					zap.Int("configuration_id", configuration.ID), zap.Int("resource_id", rq.ResourceID))
				continue
			}
			cost := resource.Cost(hours, rq.Quantity)
			amount = amount.Add(cost)
			charges = append(charges, invoicedomain.ResourceCharge{
				ResourceID:   resource.ID,
				ResourceName: resource.Name,
				Quantity:     rq.Quantity,
				PricePerHour: resource.PricePerHour,
				Cost:         cost,
			})
		}

		total = total.Add(amount)
		lines = append(lines, invoicedomain.LineItem{
			InstanceID:   instance.ID,
			InstanceName: instance.Name,
			Hours:        hours,
			Amount:       amount,
			Resources:    charges,
		})
	}

	if !total.IsPositive() {
		return nil
	}

	invoice := &invoicedomain.Invoice{
		Number:    g.NextInvoiceNumber(),
		ClientNIT: nit,
		IssuedAt:  issuedAt,
		Total:     total,
		Lines:     lines,
	}
	g.AppendInvoice(invoice)
	for _, r := range unbilled {
		r.Billed = true
	}
	return invoice
}
