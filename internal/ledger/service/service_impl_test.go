package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/ledger/domain"
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

func seedClient(t *testing.T, st *store.Store) {
	t.Helper()

	err := st.Update(context.Background(), func(g *store.Graph) error {
		cfg := &catalogdomain.Configuration{ID: 1, Name: "small"}
		g.Categories = append(g.Categories, &catalogdomain.Category{
			ID: 1, Name: "Compute", Configurations: []*catalogdomain.Configuration{cfg},
		})
		g.Clients = append(g.Clients, &registrydomain.Client{
			NIT:  "123456-7",
			Name: "Acme",
			Instances: []*registrydomain.Instance{{
				ID: 1, ConfigurationID: 1, Name: "web-1",
				StartDate: time.Now(), State: registrydomain.StateActive,
			}},
		})
		return nil
	})
	if err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
}

func TestRecordAssignsSequentialIDs(t *testing.T) {
	svc, st := newTestService(t)
	seedClient(t, st)
	ctx := context.Background()

	first, err := svc.Record(ctx, domain.RecordRequest{
		ClientNIT: "123456-7", InstanceID: 1, Hours: decimal.NewFromInt(2), RecordedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	second, err := svc.Record(ctx, domain.RecordRequest{
		ClientNIT: "123456-7", InstanceID: 1, Hours: decimal.NewFromInt(3), RecordedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if first.Billed || second.Billed {
		t.Fatalf("new records must start unbilled")
	}
}

func TestRecordRejectsNonPositiveHours(t *testing.T) {
	svc, st := newTestService(t)
	seedClient(t, st)

	for _, hours := range []string{"0", "-1"} {
		_, err := svc.Record(context.Background(), domain.RecordRequest{
			ClientNIT: "123456-7", InstanceID: 1,
			Hours: decimal.RequireFromString(hours), RecordedAt: time.Now(),
		})
		if !errors.Is(err, domain.ErrInvalidHours) {
			t.Fatalf("hours %s: expected ErrInvalidHours, got %v", hours, err)
		}
	}
}

func TestRecordRequiresOwnedInstance(t *testing.T) {
	svc, st := newTestService(t)
	seedClient(t, st)
	ctx := context.Background()

	_, err := svc.Record(ctx, domain.RecordRequest{
		ClientNIT: "999999-9", InstanceID: 1, Hours: decimal.NewFromInt(1), RecordedAt: time.Now(),
	})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}

	_, err = svc.Record(ctx, domain.RecordRequest{
		ClientNIT: "123456-7", InstanceID: 42, Hours: decimal.NewFromInt(1), RecordedAt: time.Now(),
	})
	if !errors.Is(err, domain.ErrInstanceNotFound) {
		t.Fatalf("expected ErrInstanceNotFound, got %v", err)
	}
}

func TestUnbilledByClientFiltersBilled(t *testing.T) {
	svc, st := newTestService(t)
	seedClient(t, st)
	ctx := context.Background()

	if _, err := svc.Record(ctx, domain.RecordRequest{
		ClientNIT: "123456-7", InstanceID: 1, Hours: decimal.NewFromInt(2), RecordedAt: time.Now(),
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	err := st.Update(ctx, func(g *store.Graph) error {
		g.Records[0].Billed = true
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	unbilled, err := svc.UnbilledByClient(ctx, "123456-7")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(unbilled) != 0 {
		t.Fatalf("expected no unbilled records, got %d", len(unbilled))
	}
}
