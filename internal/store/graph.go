// Package store owns the process-wide entity graph. The graph is built
// explicitly at startup from a persisted snapshot and handed to services by
// dependency injection; nothing in the system reaches it through package
// state. All collections keep insertion order because billing and reporting
// iterate them deterministically.
package store

import (
	"fmt"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
)

// Graph is the mutable entity graph. Callers only ever see it inside a
// Store.Update or Store.View closure, which provides the locking.
type Graph struct {
	Resources  []*catalogdomain.Resource
	Categories []*catalogdomain.Category
	Clients    []*registrydomain.Client
	Records    []*ledgerdomain.Record
	Invoices   []*invoicedomain.Invoice

	nextInvoiceSeq    int64
	nextConsumptionID int64
}

// NewGraph returns an empty graph with counters at their initial values.
func NewGraph() *Graph {
	return &Graph{nextInvoiceSeq: 1, nextConsumptionID: 1}
}

// ResourceByID scans the catalog for a resource, returning nil if absent.
func (g *Graph) ResourceByID(id int) *catalogdomain.Resource {
	for _, r := range g.Resources {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// CategoryByID scans the catalog for a category, returning nil if absent.
func (g *Graph) CategoryByID(id int) *catalogdomain.Category {
	for _, c := range g.Categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ConfigurationByID searches all categories for a configuration.
func (g *Graph) ConfigurationByID(id int) *catalogdomain.Configuration {
	for _, c := range g.Categories {
		if cfg := c.ConfigurationByID(id); cfg != nil {
			return cfg
		}
	}
	return nil
}

// CategoryOfConfiguration returns the category owning the configuration.
func (g *Graph) CategoryOfConfiguration(configurationID int) *catalogdomain.Category {
	for _, c := range g.Categories {
		if c.ConfigurationByID(configurationID) != nil {
			return c
		}
	}
	return nil
}

// ResourceInUse reports whether any configuration references the resource.
func (g *Graph) ResourceInUse(resourceID int) bool {
	for _, c := range g.Categories {
		for _, cfg := range c.Configurations {
			if cfg.References(resourceID) {
				return true
			}
		}
	}
	return false
}

// ClientByNIT scans the registry for a client, returning nil if absent.
func (g *Graph) ClientByNIT(nit string) *registrydomain.Client {
	for _, c := range g.Clients {
		if c.NIT == nit {
			return c
		}
	}
	return nil
}

// InstanceByID searches every client for the instance. Instance ids are
// system-unique, so the first hit is the only hit.
func (g *Graph) InstanceByID(id int) *registrydomain.Instance {
	for _, c := range g.Clients {
		if inst := c.InstanceByID(id); inst != nil {
			return inst
		}
	}
	return nil
}

// MaxInstanceID returns the highest instance id across all clients.
func (g *Graph) MaxInstanceID() int {
	max := 0
	for _, c := range g.Clients {
		for _, inst := range c.Instances {
			if inst.ID > max {
				max = inst.ID
			}
		}
	}
	return max
}

// MaxResourceID returns the highest resource id in the catalog.
func (g *Graph) MaxResourceID() int {
	max := 0
	for _, r := range g.Resources {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

// MaxCategoryID returns the highest category id in the catalog.
func (g *Graph) MaxCategoryID() int {
	max := 0
	for _, c := range g.Categories {
		if c.ID > max {
			max = c.ID
		}
	}
	return max
}

// MaxConfigurationID returns the highest configuration id across categories.
func (g *Graph) MaxConfigurationID() int {
	max := 0
	for _, c := range g.Categories {
		for _, cfg := range c.Configurations {
			if cfg.ID > max {
				max = cfg.ID
			}
		}
	}
	return max
}

// UnbilledByClient returns the client's unbilled records in insertion order.
func (g *Graph) UnbilledByClient(nit string) []*ledgerdomain.Record {
	var out []*ledgerdomain.Record
	for _, r := range g.Records {
		if !r.Billed && r.ClientNIT == nit {
			out = append(out, r)
		}
	}
	return out
}

// RecordsByInstance returns every record (billed or not) for the instance.
func (g *Graph) RecordsByInstance(instanceID int) []*ledgerdomain.Record {
	var out []*ledgerdomain.Record
	for _, r := range g.Records {
		if r.InstanceID == instanceID {
			out = append(out, r)
		}
	}
	return out
}

// InvoiceByNumber scans the archive, returning nil if absent.
func (g *Graph) InvoiceByNumber(number string) *invoicedomain.Invoice {
	for _, inv := range g.Invoices {
		if inv.Number == number {
			return inv
		}
	}
	return nil
}

// NextInvoiceNumber allocates the next number in the FACT-NNNNNN sequence.
// The counter lives in the snapshot, so numbers are never reused across
// restarts.
func (g *Graph) NextInvoiceNumber() string {
	number := fmt.Sprintf("FACT-%06d", g.nextInvoiceSeq)
	g.nextInvoiceSeq++
	return number
}

// NextConsumptionID allocates the next global consumption record id.
func (g *Graph) NextConsumptionID() int64 {
	id := g.nextConsumptionID
	g.nextConsumptionID++
	return id
}

// AppendInvoice archives a freshly generated invoice.
func (g *Graph) AppendInvoice(inv *invoicedomain.Invoice) {
	g.Invoices = append(g.Invoices, inv)
}

// AppendRecord appends a consumption record to the ledger.
func (g *Graph) AppendRecord(r *ledgerdomain.Record) {
	g.Records = append(g.Records, r)
}
