package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chapinas/facturacloud/internal/invoice/domain"
	"github.com/chapinas/facturacloud/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Store *store.Store
	Log   *zap.Logger
}

type Service struct {
	store *store.Store
	log   *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		store: p.Store,
		log:   p.Log.Named("invoice.service"),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Invoice, error) {
	_ = ctx
	var out []domain.Invoice
	err := s.store.View(func(g *store.Graph) error {
		for _, inv := range g.Invoices {
			out = append(out, *inv)
		}
		return nil
	})
	return out, err
}

func (s *Service) ByNumber(ctx context.Context, number string) (domain.Invoice, error) {
	_ = ctx
	var out domain.Invoice
	err := s.store.View(func(g *store.Graph) error {
		inv := g.InvoiceByNumber(number)
		if inv == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, number)
		}
		out = *inv
		return nil
	})
	return out, err
}

func (s *Service) ByClient(ctx context.Context, nit string) ([]domain.Invoice, error) {
	_ = ctx
	var out []domain.Invoice
	err := s.store.View(func(g *store.Graph) error {
		for _, inv := range g.Invoices {
			if inv.ClientNIT == nit {
				out = append(out, *inv)
			}
		}
		return nil
	})
	return out, err
}

// inRange reports whether an issue date falls inside [from, to], bounds
// included.
func inRange(issued, from, to time.Time) bool {
	return !issued.Before(from) && !issued.After(to)
}

func (s *Service) RevenueByCategory(ctx context.Context, from, to time.Time) ([]domain.CategoryRevenue, error) {
	_ = ctx
	byCategory := make(map[int]*domain.CategoryRevenue)
	byConfiguration := make(map[int]map[int]*domain.ConfigurationRevenue)
	var categoryOrder []int

	err := s.store.View(func(g *store.Graph) error {
		for _, inv := range g.Invoices {
			if !inRange(inv.IssuedAt, from, to) {
				continue
			}
			client := g.ClientByNIT(inv.ClientNIT)
			for _, line := range inv.Lines {
				var configurationID int
				if client != nil {
					if instance := client.InstanceByID(line.InstanceID); instance != nil {
						configurationID = instance.ConfigurationID
					}
				}
				if configurationID == 0 {
					// Client or instance removed after invoicing; the revenue
					// can no longer be attributed to a category.
					s.log.Warn("unattributable invoice line",
						zap.String("invoice", inv.Number), zap.Int("instance_id", line.InstanceID))
					continue
				}
				category := g.CategoryOfConfiguration(configurationID)
				configuration := g.ConfigurationByID(configurationID)
				if category == nil || configuration == nil {
					s.log.Warn("unattributable invoice line",
						zap.String("invoice", inv.Number), zap.Int("configuration_id", configurationID))
					continue
				}

				agg, ok := byCategory[category.ID]
				if !ok {
					agg = &domain.CategoryRevenue{
						CategoryID:  category.ID,
						Name:        category.Name,
						Description: category.Description,
						Workload:    category.Workload,
					}
					byCategory[category.ID] = agg
					byConfiguration[category.ID] = make(map[int]*domain.ConfigurationRevenue)
					categoryOrder = append(categoryOrder, category.ID)
				}
				agg.Revenue = agg.Revenue.Add(line.Amount)

				cfgAgg, ok := byConfiguration[category.ID][configuration.ID]
				if !ok {
					cfgAgg = &domain.ConfigurationRevenue{
						ConfigurationID: configuration.ID,
						Name:            configuration.Name,
					}
					byConfiguration[category.ID][configuration.ID] = cfgAgg
				}
				cfgAgg.Revenue = cfgAgg.Revenue.Add(line.Amount)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.CategoryRevenue, 0, len(byCategory))
	for _, id := range categoryOrder {
		agg := byCategory[id]
		if !agg.Revenue.IsPositive() {
			continue
		}
		configurations := make([]domain.ConfigurationRevenue, 0, len(byConfiguration[id]))
		for _, cfgAgg := range byConfiguration[id] {
			if cfgAgg.Revenue.IsPositive() {
				configurations = append(configurations, *cfgAgg)
			}
		}
		sort.SliceStable(configurations, func(i, j int) bool {
			return configurations[i].Revenue.GreaterThan(configurations[j].Revenue)
		})
		agg.Configurations = configurations
		out = append(out, *agg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out, nil
}

func (s *Service) RevenueByResource(ctx context.Context, from, to time.Time) ([]domain.ResourceRevenue, error) {
	_ = ctx
	byResource := make(map[int]*domain.ResourceRevenue)
	var order []int

	err := s.store.View(func(g *store.Graph) error {
		for _, inv := range g.Invoices {
			if !inRange(inv.IssuedAt, from, to) {
				continue
			}
			for _, line := range inv.Lines {
				for _, charge := range line.Resources {
					agg, ok := byResource[charge.ResourceID]
					if !ok {
						agg = &domain.ResourceRevenue{
							ResourceID:   charge.ResourceID,
							Name:         charge.ResourceName,
							PricePerHour: charge.PricePerHour,
						}
						if resource := g.ResourceByID(charge.ResourceID); resource != nil {
							agg.Kind = string(resource.Kind)
							agg.UnitMetric = resource.UnitMetric
						}
						byResource[charge.ResourceID] = agg
						order = append(order, charge.ResourceID)
					}
					agg.Revenue = agg.Revenue.Add(charge.Cost)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResourceRevenue, 0, len(byResource))
	for _, id := range order {
		if agg := byResource[id]; agg.Revenue.IsPositive() {
			out = append(out, *agg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out, nil
}
