package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/password"
	"github.com/chapinas/facturacloud/internal/registry/domain"
	"github.com/chapinas/facturacloud/internal/store"
	"github.com/chapinas/facturacloud/internal/validate"
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
		log:   p.Log.Named("registry.service"),
	}
}

func (s *Service) CreateClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	nit := strings.TrimSpace(req.NIT)
	if !validate.NIT(nit) {
		return domain.Client{}, fmt.Errorf("%w: %q", domain.ErrInvalidNIT, nit)
	}
	if strings.TrimSpace(req.AccessKey) == "" {
		return domain.Client{}, domain.ErrMissingAccessKey
	}
	hash, err := password.Hash(req.AccessKey)
	if err != nil {
		return domain.Client{}, err
	}

	var client domain.Client
	err = s.store.Update(ctx, func(g *store.Graph) error {
		if g.ClientByNIT(nit) != nil {
			return fmt.Errorf("%w: %s", domain.ErrNITExists, nit)
		}
		client = domain.Client{
			NIT:           nit,
			Name:          strings.TrimSpace(req.Name),
			Username:      strings.TrimSpace(req.Username),
			AccessKeyHash: hash,
			Address:       strings.TrimSpace(req.Address),
			Email:         strings.TrimSpace(req.Email),
		}
		g.Clients = append(g.Clients, &client)
		return nil
	})
	return client, err
}

func (s *Service) ImportClient(ctx context.Context, req domain.ImportClientRequest) (bool, error) {
	nit := strings.TrimSpace(req.NIT)
	if !validate.NIT(nit) {
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidNIT, nit)
	}
	hash, err := password.Hash(req.AccessKey)
	if err != nil {
		return false, err
	}

	created := false
	err = s.store.Update(ctx, func(g *store.Graph) error {
		if g.ClientByNIT(nit) != nil {
			return nil
		}
		for _, inst := range req.Instances {
			if g.ConfigurationByID(inst.ConfigurationID) == nil {
				return fmt.Errorf("%w: id %d", catalogdomain.ErrConfigNotFound, inst.ConfigurationID)
			}
			if g.InstanceByID(inst.ID) != nil {
				return fmt.Errorf("%w: id %d", domain.ErrDuplicateInstance, inst.ID)
			}
		}
		client := domain.Client{
			NIT:           nit,
			Name:          strings.TrimSpace(req.Name),
			Username:      strings.TrimSpace(req.Username),
			AccessKeyHash: hash,
			Address:       strings.TrimSpace(req.Address),
			Email:         strings.TrimSpace(req.Email),
			Instances:     req.Instances,
		}
		g.Clients = append(g.Clients, &client)
		created = true
		return nil
	})
	return created, err
}

func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	_ = ctx
	var out []domain.Client
	err := s.store.View(func(g *store.Graph) error {
		for _, c := range g.Clients {
			out = append(out, *c)
		}
		return nil
	})
	return out, err
}

func (s *Service) ClientByNIT(ctx context.Context, nit string) (domain.Client, error) {
	_ = ctx
	var out domain.Client
	err := s.store.View(func(g *store.Graph) error {
		c := g.ClientByNIT(nit)
		if c == nil {
			return fmt.Errorf("%w: %s", domain.ErrClientNotFound, nit)
		}
		out = *c
		return nil
	})
	return out, err
}

// DeleteClient removes the client and its instances. Historical consumption
// records and invoices keep the NIT as a plain string and stay queryable.
func (s *Service) DeleteClient(ctx context.Context, nit string) error {
	return s.store.Update(ctx, func(g *store.Graph) error {
		if g.ClientByNIT(nit) == nil {
			return fmt.Errorf("%w: %s", domain.ErrClientNotFound, nit)
		}
		kept := g.Clients[:0]
		for _, c := range g.Clients {
			if c.NIT != nit {
				kept = append(kept, c)
			}
		}
		g.Clients = kept
		return nil
	})
}

func (s *Service) CreateInstance(ctx context.Context, req domain.CreateInstanceRequest) (domain.Instance, error) {
	var instance domain.Instance
	err := s.store.Update(ctx, func(g *store.Graph) error {
		client := g.ClientByNIT(req.ClientNIT)
		if client == nil {
			return fmt.Errorf("%w: %s", domain.ErrClientNotFound, req.ClientNIT)
		}
		if g.ConfigurationByID(req.ConfigurationID) == nil {
			return fmt.Errorf("%w: id %d", catalogdomain.ErrConfigNotFound, req.ConfigurationID)
		}

		// Instance ids are allocated from the maximum across all clients;
		// the ledger assumes they are system-unique.
		instance = domain.Instance{
			ID:              g.MaxInstanceID() + 1,
			ConfigurationID: req.ConfigurationID,
			Name:            strings.TrimSpace(req.Name),
			StartDate:       req.StartDate,
			State:           domain.StateActive,
		}
		stored := instance
		client.Instances = append(client.Instances, &stored)
		return nil
	})
	return instance, err
}

func (s *Service) ListInstances(ctx context.Context) ([]domain.InstanceView, error) {
	_ = ctx
	var out []domain.InstanceView
	err := s.store.View(func(g *store.Graph) error {
		for _, client := range g.Clients {
			for _, inst := range client.Instances {
				out = append(out, domain.InstanceView{
					Instance:   *inst,
					ClientNIT:  client.NIT,
					ClientName: client.Name,
				})
			}
		}
		return nil
	})
	return out, err
}

func (s *Service) CancelInstance(ctx context.Context, nit string, instanceID int, endDate time.Time) (domain.Instance, error) {
	var out domain.Instance
	err := s.store.Update(ctx, func(g *store.Graph) error {
		client := g.ClientByNIT(nit)
		if client == nil {
			return fmt.Errorf("%w: %s", domain.ErrClientNotFound, nit)
		}
		inst := client.InstanceByID(instanceID)
		if inst == nil {
			return fmt.Errorf("%w: id %d", domain.ErrInstanceNotFound, instanceID)
		}
		if inst.Cancelled() {
			return fmt.Errorf("%w: id %d", domain.ErrInstanceCancelled, instanceID)
		}
		inst.Cancel(endDate)
		out = *inst
		return nil
	})
	return out, err
}
