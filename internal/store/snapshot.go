package store

import (
	"context"
	"strconv"
	"strings"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
)

// Snapshot is the durable form of the entity graph, including the id
// counters. It is what a Persister loads at startup and saves after every
// mutation.
type Snapshot struct {
	Resources  []catalogdomain.Resource  `json:"resources"`
	Categories []catalogdomain.Category  `json:"categories"`
	Clients    []registrydomain.Client   `json:"clients"`
	Records    []ledgerdomain.Record     `json:"records"`
	Invoices   []invoicedomain.Invoice   `json:"invoices"`

	NextInvoiceSeq    int64 `json:"next_invoice_seq"`
	NextConsumptionID int64 `json:"next_consumption_id"`
}

// Persister is the durable-storage contract. The core does not care about
// the encoding behind it; it only requires that Save is synchronous and that
// Load returns whatever the last successful Save wrote.
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// snapshot deep-copies the graph into its durable form.
func (g *Graph) snapshot() *Snapshot {
	snap := &Snapshot{
		NextInvoiceSeq:    g.nextInvoiceSeq,
		NextConsumptionID: g.nextConsumptionID,
	}
	for _, r := range g.Resources {
		snap.Resources = append(snap.Resources, *r)
	}
	for _, c := range g.Categories {
		cat := *c
		cat.Configurations = nil
		for _, cfg := range c.Configurations {
			copied := *cfg
			copied.Resources = append([]catalogdomain.ResourceQuantity(nil), cfg.Resources...)
			cat.Configurations = append(cat.Configurations, &copied)
		}
		snap.Categories = append(snap.Categories, cat)
	}
	for _, c := range g.Clients {
		client := *c
		client.Instances = nil
		for _, inst := range c.Instances {
			copied := *inst
			client.Instances = append(client.Instances, &copied)
		}
		snap.Clients = append(snap.Clients, client)
	}
	for _, r := range g.Records {
		snap.Records = append(snap.Records, *r)
	}
	for _, inv := range g.Invoices {
		snap.Invoices = append(snap.Invoices, *inv)
	}
	return snap
}

// fromSnapshot rebuilds a graph. The counters are clamped to the maxima
// observed in the data so ids are never reissued even if a stale snapshot
// carried lower counter values.
func fromSnapshot(snap *Snapshot) *Graph {
	g := NewGraph()
	if snap == nil {
		return g
	}
	for i := range snap.Resources {
		r := snap.Resources[i]
		g.Resources = append(g.Resources, &r)
	}
	for i := range snap.Categories {
		c := snap.Categories[i]
		g.Categories = append(g.Categories, &c)
	}
	for i := range snap.Clients {
		c := snap.Clients[i]
		g.Clients = append(g.Clients, &c)
	}
	for i := range snap.Records {
		r := snap.Records[i]
		g.Records = append(g.Records, &r)
	}
	for i := range snap.Invoices {
		inv := snap.Invoices[i]
		g.Invoices = append(g.Invoices, &inv)
	}

	g.nextInvoiceSeq = snap.NextInvoiceSeq
	g.nextConsumptionID = snap.NextConsumptionID
	if g.nextInvoiceSeq < 1 {
		g.nextInvoiceSeq = 1
	}
	if g.nextConsumptionID < 1 {
		g.nextConsumptionID = 1
	}
	for _, inv := range g.Invoices {
		if seq, ok := parseInvoiceSeq(inv.Number); ok && seq >= g.nextInvoiceSeq {
			g.nextInvoiceSeq = seq + 1
		}
	}
	for _, r := range g.Records {
		if r.ID >= g.nextConsumptionID {
			g.nextConsumptionID = r.ID + 1
		}
	}
	return g
}

func parseInvoiceSeq(number string) (int64, bool) {
	rest, ok := strings.CutPrefix(number, "FACT-")
	if !ok {
		return 0, false
	}
	seq, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}
