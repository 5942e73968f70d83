package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/password"
	"github.com/chapinas/facturacloud/internal/registry/domain"
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

func seedConfiguration(t *testing.T, st *store.Store, id int) {
	t.Helper()

	err := st.Update(context.Background(), func(g *store.Graph) error {
		cfg := &catalogdomain.Configuration{ID: id, Name: "small"}
		cfg.SetResource(1, decimal.NewFromInt(1))
		g.Categories = append(g.Categories, &catalogdomain.Category{
			ID:             1,
			Name:           "Compute",
			Configurations: []*catalogdomain.Configuration{cfg},
		})
		return nil
	})
	if err != nil {
		t.Fatalf("failed to seed configuration: %v", err)
	}
}

func TestCreateClientValidatesNIT(t *testing.T) {
	svc, _ := newTestService(t)

	for _, nit := range []string{"", "12345", "abc-7", "123456-X", "123456-77"} {
		_, err := svc.CreateClient(context.Background(), domain.CreateClientRequest{
			NIT: nit, Name: "Acme", AccessKey: "secret",
		})
		if !errors.Is(err, domain.ErrInvalidNIT) {
			t.Fatalf("nit %q: expected ErrInvalidNIT, got %v", nit, err)
		}
	}

	for _, nit := range []string{"123456-7", "1-K", "998877-k"} {
		if _, err := svc.CreateClient(context.Background(), domain.CreateClientRequest{
			NIT: nit, Name: "Acme", AccessKey: "secret",
		}); err != nil {
			t.Fatalf("nit %q: expected success, got %v", nit, err)
		}
	}
}

func TestCreateClientRejectsDuplicateNIT(t *testing.T) {
	svc, _ := newTestService(t)

	req := domain.CreateClientRequest{NIT: "123456-7", Name: "Acme", AccessKey: "secret"}
	if _, err := svc.CreateClient(context.Background(), req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateClient(context.Background(), req); !errors.Is(err, domain.ErrNITExists) {
		t.Fatalf("expected ErrNITExists, got %v", err)
	}
}

func TestCreateClientHashesAccessKey(t *testing.T) {
	svc, _ := newTestService(t)

	client, err := svc.CreateClient(context.Background(), domain.CreateClientRequest{
		NIT: "123456-7", Name: "Acme", AccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if client.AccessKeyHash == "secret" || client.AccessKeyHash == "" {
		t.Fatalf("expected hashed access key")
	}
	if !password.Verify("secret", client.AccessKeyHash) {
		t.Fatalf("expected hash to verify")
	}
	if password.Verify("wrong", client.AccessKeyHash) {
		t.Fatalf("expected wrong key to fail verification")
	}
}

func TestCreateClientRequiresAccessKey(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateClient(context.Background(), domain.CreateClientRequest{
		NIT: "123456-7", Name: "Acme",
	})
	if !errors.Is(err, domain.ErrMissingAccessKey) {
		t.Fatalf("expected ErrMissingAccessKey, got %v", err)
	}
}

func TestCreateInstanceAllocatesSystemWideIDs(t *testing.T) {
	svc, st := newTestService(t)
	seedConfiguration(t, st, 1)
	ctx := context.Background()

	for _, nit := range []string{"111111-1", "222222-2"} {
		if _, err := svc.CreateClient(ctx, domain.CreateClientRequest{NIT: nit, Name: "c", AccessKey: "k"}); err != nil {
			t.Fatalf("create client failed: %v", err)
		}
	}

	first, err := svc.CreateInstance(ctx, domain.CreateInstanceRequest{
		ClientNIT: "111111-1", ConfigurationID: 1, Name: "a", StartDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("create instance failed: %v", err)
	}
	second, err := svc.CreateInstance(ctx, domain.CreateInstanceRequest{
		ClientNIT: "222222-2", ConfigurationID: 1, Name: "b", StartDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("create instance failed: %v", err)
	}

	// Ids are unique across clients, not per client.
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
}

func TestCreateInstanceRequiresConfiguration(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateClient(ctx, domain.CreateClientRequest{NIT: "123456-7", Name: "c", AccessKey: "k"}); err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	_, err := svc.CreateInstance(ctx, domain.CreateInstanceRequest{
		ClientNIT: "123456-7", ConfigurationID: 9, Name: "a", StartDate: time.Now(),
	})
	if !errors.Is(err, catalogdomain.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestCancelInstanceOnce(t *testing.T) {
	svc, st := newTestService(t)
	seedConfiguration(t, st, 1)
	ctx := context.Background()

	if _, err := svc.CreateClient(ctx, domain.CreateClientRequest{NIT: "123456-7", Name: "c", AccessKey: "k"}); err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	instance, err := svc.CreateInstance(ctx, domain.CreateInstanceRequest{
		ClientNIT: "123456-7", ConfigurationID: 1, Name: "a", StartDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("create instance failed: %v", err)
	}

	endDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cancelled, err := svc.CancelInstance(ctx, "123456-7", instance.ID, endDate)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.State != domain.StateCancelled || cancelled.EndDate == nil || !cancelled.EndDate.Equal(endDate) {
		t.Fatalf("expected cancelled instance with end date, got %+v", cancelled)
	}

	if _, err := svc.CancelInstance(ctx, "123456-7", instance.ID, endDate); !errors.Is(err, domain.ErrInstanceCancelled) {
		t.Fatalf("expected ErrInstanceCancelled, got %v", err)
	}
}

func TestImportClientSkipsExisting(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := domain.ImportClientRequest{NIT: "123456-7", Name: "Acme", AccessKey: "k"}
	created, err := svc.ImportClient(ctx, req)
	if err != nil || !created {
		t.Fatalf("expected first import to create, got created=%v err=%v", created, err)
	}
	created, err = svc.ImportClient(ctx, req)
	if err != nil || created {
		t.Fatalf("expected second import to skip, got created=%v err=%v", created, err)
	}
}

func TestImportClientRejectsDuplicateInstanceIDs(t *testing.T) {
	svc, st := newTestService(t)
	seedConfiguration(t, st, 1)
	ctx := context.Background()

	first := domain.ImportClientRequest{
		NIT: "111111-1", Name: "a", AccessKey: "k",
		Instances: []*domain.Instance{{ID: 5, ConfigurationID: 1, Name: "x", StartDate: time.Now(), State: domain.StateActive}},
	}
	if _, err := svc.ImportClient(ctx, first); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	second := domain.ImportClientRequest{
		NIT: "222222-2", Name: "b", AccessKey: "k",
		Instances: []*domain.Instance{{ID: 5, ConfigurationID: 1, Name: "y", StartDate: time.Now(), State: domain.StateActive}},
	}
	if _, err := svc.ImportClient(ctx, second); !errors.Is(err, domain.ErrDuplicateInstance) {
		t.Fatalf("expected ErrDuplicateInstance, got %v", err)
	}
}
