package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/store"
	"github.com/chapinas/facturacloud/internal/validate"
	"github.com/shopspring/decimal"
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
		log:   p.Log.Named("catalog.service"),
	}
}

func (s *Service) CreateResource(ctx context.Context, req domain.CreateResourceRequest) (domain.Resource, error) {
	kind, err := normalizeKind(req.Kind)
	if err != nil {
		return domain.Resource{}, err
	}
	if req.PricePerHour.IsNegative() {
		return domain.Resource{}, fmt.Errorf("%w: price per hour must not be negative", domain.ErrInvalidPrice)
	}

	var resource domain.Resource
	err = s.store.Update(ctx, func(g *store.Graph) error {
		resource = domain.Resource{
			ID:           g.MaxResourceID() + 1,
			Name:         strings.TrimSpace(req.Name),
			Abbreviation: strings.TrimSpace(req.Abbreviation),
			UnitMetric:   strings.TrimSpace(req.UnitMetric),
			Kind:         kind,
			PricePerHour: req.PricePerHour,
		}
		g.Resources = append(g.Resources, &resource)
		return nil
	})
	return resource, err
}

func (s *Service) ImportResource(ctx context.Context, resource domain.Resource) (bool, error) {
	kind, err := normalizeKind(string(resource.Kind))
	if err != nil {
		return false, err
	}
	resource.Kind = kind
	if resource.PricePerHour.IsNegative() {
		return false, fmt.Errorf("%w: price per hour must not be negative", domain.ErrInvalidPrice)
	}

	created := false
	err = s.store.Update(ctx, func(g *store.Graph) error {
		if g.ResourceByID(resource.ID) != nil {
			return nil
		}
		imported := resource
		g.Resources = append(g.Resources, &imported)
		created = true
		return nil
	})
	return created, err
}

func (s *Service) ListResources(ctx context.Context) ([]domain.Resource, error) {
	_ = ctx
	var out []domain.Resource
	err := s.store.View(func(g *store.Graph) error {
		for _, r := range g.Resources {
			out = append(out, *r)
		}
		return nil
	})
	return out, err
}

func (s *Service) ResourceByID(ctx context.Context, id int) (domain.Resource, error) {
	_ = ctx
	var out domain.Resource
	err := s.store.View(func(g *store.Graph) error {
		r := g.ResourceByID(id)
		if r == nil {
			return fmt.Errorf("%w: id %d", domain.ErrResourceNotFound, id)
		}
		out = *r
		return nil
	})
	return out, err
}

func (s *Service) DeleteResource(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(g *store.Graph) error {
		if g.ResourceByID(id) == nil {
			return fmt.Errorf("%w: id %d", domain.ErrResourceNotFound, id)
		}
		if g.ResourceInUse(id) {
			return fmt.Errorf("%w: resource %d is referenced by a configuration", domain.ErrResourceInUse, id)
		}
		kept := g.Resources[:0]
		for _, r := range g.Resources {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		g.Resources = kept
		return nil
	})
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error) {
	var category domain.Category
	err := s.store.Update(ctx, func(g *store.Graph) error {
		category = domain.Category{
			ID:          g.MaxCategoryID() + 1,
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Workload:    strings.TrimSpace(req.Workload),
		}
		g.Categories = append(g.Categories, &category)
		return nil
	})
	return category, err
}

func (s *Service) ImportCategory(ctx context.Context, category domain.Category) (bool, error) {
	created := false
	err := s.store.Update(ctx, func(g *store.Graph) error {
		if g.CategoryByID(category.ID) != nil {
			return nil
		}
		imported := category
		g.Categories = append(g.Categories, &imported)
		created = true
		return nil
	})
	return created, err
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	_ = ctx
	var out []domain.Category
	err := s.store.View(func(g *store.Graph) error {
		for _, c := range g.Categories {
			out = append(out, *c)
		}
		return nil
	})
	return out, err
}

func (s *Service) CategoryByID(ctx context.Context, id int) (domain.Category, error) {
	_ = ctx
	var out domain.Category
	err := s.store.View(func(g *store.Graph) error {
		c := g.CategoryByID(id)
		if c == nil {
			return fmt.Errorf("%w: id %d", domain.ErrCategoryNotFound, id)
		}
		out = *c
		return nil
	})
	return out, err
}

func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(g *store.Graph) error {
		c := g.CategoryByID(id)
		if c == nil {
			return fmt.Errorf("%w: id %d", domain.ErrCategoryNotFound, id)
		}
		if len(c.Configurations) > 0 {
			return fmt.Errorf("%w: category %d owns %d configurations", domain.ErrCategoryNotEmpty, id, len(c.Configurations))
		}
		kept := g.Categories[:0]
		for _, cat := range g.Categories {
			if cat.ID != id {
				kept = append(kept, cat)
			}
		}
		g.Categories = kept
		return nil
	})
}

func (s *Service) CreateConfiguration(ctx context.Context, req domain.CreateConfigurationRequest) (domain.Configuration, error) {
	for _, rq := range req.Resources {
		if !rq.Quantity.IsPositive() {
			return domain.Configuration{}, fmt.Errorf("%w: quantity for resource %d must be positive", domain.ErrInvalidQuantity, rq.ResourceID)
		}
	}

	var configuration domain.Configuration
	err := s.store.Update(ctx, func(g *store.Graph) error {
		category := g.CategoryByID(req.CategoryID)
		if category == nil {
			return fmt.Errorf("%w: id %d", domain.ErrCategoryNotFound, req.CategoryID)
		}
		for _, rq := range req.Resources {
			if g.ResourceByID(rq.ResourceID) == nil {
				return fmt.Errorf("%w: id %d", domain.ErrResourceNotFound, rq.ResourceID)
			}
		}

		configuration = domain.Configuration{
			ID:          g.MaxConfigurationID() + 1,
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
		}
		for _, rq := range req.Resources {
			configuration.SetResource(rq.ResourceID, rq.Quantity)
		}
		category.Configurations = append(category.Configurations, &configuration)
		return nil
	})
	return configuration, err
}

func (s *Service) ListConfigurations(ctx context.Context) ([]domain.ConfigurationView, error) {
	_ = ctx
	var out []domain.ConfigurationView
	err := s.store.View(func(g *store.Graph) error {
		for _, category := range g.Categories {
			for _, cfg := range category.Configurations {
				out = append(out, domain.ConfigurationView{
					Configuration: *cfg,
					CategoryID:    category.ID,
					CategoryName:  category.Name,
					CostPerHour:   costPerHour(g, cfg),
				})
			}
		}
		return nil
	})
	return out, err
}

func (s *Service) ConfigurationByID(ctx context.Context, id int) (domain.Configuration, error) {
	_ = ctx
	var out domain.Configuration
	err := s.store.View(func(g *store.Graph) error {
		cfg := g.ConfigurationByID(id)
		if cfg == nil {
			return fmt.Errorf("%w: id %d", domain.ErrConfigNotFound, id)
		}
		out = *cfg
		return nil
	})
	return out, err
}

// costPerHour sums price x quantity over the configuration's resource map.
// Entries pointing at vanished resources contribute nothing.
func costPerHour(g *store.Graph, cfg *domain.Configuration) decimal.Decimal {
	total := decimal.Zero
	for _, rq := range cfg.Resources {
		if r := g.ResourceByID(rq.ResourceID); r != nil {
			total = total.Add(r.Cost(decimal.NewFromInt(1), rq.Quantity))
		}
	}
	return total
}

func normalizeKind(raw string) (domain.ResourceKind, error) {
	kind, ok := validate.NormalizeEnum(raw, string(domain.KindHardware), string(domain.KindSoftware))
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKind, raw)
	}
	return domain.ResourceKind(kind), nil
}
