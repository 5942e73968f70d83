package service

import (
	"context"
	"fmt"

	"github.com/chapinas/facturacloud/internal/ledger/domain"
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
		log:   p.Log.Named("ledger.service"),
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (domain.Record, error) {
	if !req.Hours.IsPositive() {
		return domain.Record{}, fmt.Errorf("%w: hours must be positive, got %s", domain.ErrInvalidHours, req.Hours)
	}

	var record domain.Record
	err := s.store.Update(ctx, func(g *store.Graph) error {
		client := g.ClientByNIT(req.ClientNIT)
		if client == nil {
			return fmt.Errorf("%w: %s", domain.ErrClientNotFound, req.ClientNIT)
		}
		if client.InstanceByID(req.InstanceID) == nil {
			return fmt.Errorf("%w: instance %d is not owned by client %s", domain.ErrInstanceNotFound, req.InstanceID, req.ClientNIT)
		}

		record = domain.Record{
			ID:         g.NextConsumptionID(),
			ClientNIT:  req.ClientNIT,
			InstanceID: req.InstanceID,
			Hours:      req.Hours,
			RecordedAt: req.RecordedAt,
		}
		stored := record
		g.AppendRecord(&stored)
		return nil
	})
	return record, err
}

func (s *Service) List(ctx context.Context) ([]domain.Record, error) {
	_ = ctx
	var out []domain.Record
	err := s.store.View(func(g *store.Graph) error {
		for _, r := range g.Records {
			out = append(out, *r)
		}
		return nil
	})
	return out, err
}

func (s *Service) UnbilledByClient(ctx context.Context, nit string) ([]domain.Record, error) {
	_ = ctx
	var out []domain.Record
	err := s.store.View(func(g *store.Graph) error {
		for _, r := range g.UnbilledByClient(nit) {
			out = append(out, *r)
		}
		return nil
	})
	return out, err
}

func (s *Service) ByInstance(ctx context.Context, instanceID int) ([]domain.Record, error) {
	_ = ctx
	var out []domain.Record
	err := s.store.View(func(g *store.Graph) error {
		for _, r := range g.RecordsByInstance(instanceID) {
			out = append(out, *r)
		}
		return nil
	})
	return out, err
}
