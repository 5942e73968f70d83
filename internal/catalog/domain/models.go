// Package domain contains the pricing catalog models: resources, categories
// and the configurations that bundle resources into billable units.
package domain

import "github.com/shopspring/decimal"

// ResourceKind classifies a catalog resource.
type ResourceKind string

const (
	KindHardware ResourceKind = "Hardware"
	KindSoftware ResourceKind = "Software"
)

// Resource is a priced unit of capacity (e.g. vCPU, storage GB).
type Resource struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Abbreviation string          `json:"abbreviation"`
	UnitMetric   string          `json:"unit_metric"`
	Kind         ResourceKind    `json:"kind"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
}

// Cost prices this resource for a number of hours at a given quantity.
func (r Resource) Cost(hours, quantity decimal.Decimal) decimal.Decimal {
	return r.PricePerHour.Mul(hours).Mul(quantity)
}

// ResourceQuantity is one entry of a configuration's bill of materials.
type ResourceQuantity struct {
	ResourceID int             `json:"resource_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Configuration bundles resources with quantities. It is owned by exactly
// one category; the resource list keeps insertion order because invoice
// line-item breakdowns follow it.
type Configuration struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Resources   []ResourceQuantity `json:"resources"`
}

// SetResource adds or replaces a resource entry.
func (c *Configuration) SetResource(resourceID int, quantity decimal.Decimal) {
	for i := range c.Resources {
		if c.Resources[i].ResourceID == resourceID {
			c.Resources[i].Quantity = quantity
			return
		}
	}
	c.Resources = append(c.Resources, ResourceQuantity{ResourceID: resourceID, Quantity: quantity})
}

// References reports whether the configuration uses the given resource.
func (c *Configuration) References(resourceID int) bool {
	for _, rq := range c.Resources {
		if rq.ResourceID == resourceID {
			return true
		}
	}
	return false
}

// Category groups configurations by workload type and owns them.
type Category struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Workload       string           `json:"workload"`
	Configurations []*Configuration `json:"configurations"`
}

// ConfigurationByID returns the owned configuration with the given id, or nil.
func (c *Category) ConfigurationByID(id int) *Configuration {
	for _, cfg := range c.Configurations {
		if cfg.ID == id {
			return cfg
		}
	}
	return nil
}
