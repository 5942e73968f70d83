package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
)

func newTestStore(t *testing.T, p Persister) *Store {
	t.Helper()

	st, err := New(Params{Log: zap.NewNop(), Persister: p})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return st
}

func TestInvoiceNumberFormat(t *testing.T) {
	st := newTestStore(t, NewMemoryPersister())

	var first, second string
	err := st.Update(context.Background(), func(g *Graph) error {
		first = g.NextInvoiceNumber()
		second = g.NextInvoiceNumber()
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if first != "FACT-000001" || second != "FACT-000002" {
		t.Fatalf("expected FACT-000001 and FACT-000002, got %s and %s", first, second)
	}
}

func TestCountersSurviveRestore(t *testing.T) {
	persister := NewMemoryPersister()
	st := newTestStore(t, persister)

	err := st.Update(context.Background(), func(g *Graph) error {
		g.AppendInvoice(&invoicedomain.Invoice{
			Number: g.NextInvoiceNumber(), ClientNIT: "123456-7",
			IssuedAt: time.Now(), Total: decimal.NewFromInt(1),
		})
		g.AppendRecord(&ledgerdomain.Record{
			ID: g.NextConsumptionID(), ClientNIT: "123456-7", InstanceID: 1,
			Hours: decimal.NewFromInt(1), RecordedAt: time.Now(),
		})
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// A second store on the same persister simulates a restart.
	restored := newTestStore(t, persister)
	err = restored.Update(context.Background(), func(g *Graph) error {
		if number := g.NextInvoiceNumber(); number != "FACT-000002" {
			t.Fatalf("expected FACT-000002 after restore, got %s", number)
		}
		if id := g.NextConsumptionID(); id != 2 {
			t.Fatalf("expected consumption id 2 after restore, got %d", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestCountersClampToObservedMaxima(t *testing.T) {
	persister := NewMemoryPersister()
	// A stale snapshot whose counters lag behind the data it carries.
	if err := persister.Save(context.Background(), &Snapshot{
		Invoices: []invoicedomain.Invoice{{Number: "FACT-000009", ClientNIT: "123456-7", Total: decimal.NewFromInt(1)}},
		Records:  []ledgerdomain.Record{{ID: 14, ClientNIT: "123456-7", InstanceID: 1, Hours: decimal.NewFromInt(1)}},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	st := newTestStore(t, persister)
	err := st.Update(context.Background(), func(g *Graph) error {
		if number := g.NextInvoiceNumber(); number != "FACT-000010" {
			t.Fatalf("expected FACT-000010, got %s", number)
		}
		if id := g.NextConsumptionID(); id != 15 {
			t.Fatalf("expected consumption id 15, got %d", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

type failingPersister struct {
	saves int
}

func (f *failingPersister) Load(ctx context.Context) (*Snapshot, error) { return nil, nil }
func (f *failingPersister) Save(ctx context.Context, snap *Snapshot) error {
	f.saves++
	return errors.New("disk full")
}

type countingObserver struct {
	failures int
}

func (c *countingObserver) FlushFailed() { c.failures++ }

func TestUpdateSurvivesFlushFailure(t *testing.T) {
	persister := &failingPersister{}
	observer := &countingObserver{}
	st, err := New(Params{Log: zap.NewNop(), Persister: persister, Observer: observer})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}

	err = st.Update(context.Background(), func(g *Graph) error {
		g.AppendRecord(&ledgerdomain.Record{ID: g.NextConsumptionID(), ClientNIT: "123456-7", InstanceID: 1, Hours: decimal.NewFromInt(1)})
		return nil
	})
	if err != nil {
		t.Fatalf("expected flush failure to be swallowed, got %v", err)
	}
	if observer.failures != 1 {
		t.Fatalf("expected 1 observed flush failure, got %d", observer.failures)
	}

	// The in-memory graph kept the mutation.
	err = st.View(func(g *Graph) error {
		if len(g.Records) != 1 {
			t.Fatalf("expected record to persist in memory")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
}

func TestUpdateRollbackSkipsFlush(t *testing.T) {
	persister := &failingPersister{}
	st, err := New(Params{Log: zap.NewNop(), Persister: persister})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}

	wantErr := errors.New("validation failed")
	err = st.Update(context.Background(), func(g *Graph) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if persister.saves != 0 {
		t.Fatalf("expected no flush after failed update, got %d", persister.saves)
	}
}

func TestResetClearsGraphAndCounters(t *testing.T) {
	st := newTestStore(t, NewMemoryPersister())

	err := st.Update(context.Background(), func(g *Graph) error {
		g.AppendInvoice(&invoicedomain.Invoice{Number: g.NextInvoiceNumber(), ClientNIT: "123456-7", Total: decimal.NewFromInt(1)})
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := st.Reset(context.Background()); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	err = st.Update(context.Background(), func(g *Graph) error {
		if len(g.Invoices) != 0 {
			t.Fatalf("expected empty graph after reset")
		}
		if number := g.NextInvoiceNumber(); number != "FACT-000001" {
			t.Fatalf("expected counters to restart, got %s", number)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
}
