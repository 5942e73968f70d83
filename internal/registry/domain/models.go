// Package domain contains the client and instance models of the registry.
package domain

import "time"

// InstanceState is the lifecycle state of a provisioned instance.
type InstanceState string

const (
	StateActive    InstanceState = "Active"
	StateCancelled InstanceState = "Cancelled"
)

// Instance is a client's running allocation of a catalog configuration.
// Instance ids are unique across the whole system, not per client.
type Instance struct {
	ID              int           `json:"id"`
	ConfigurationID int           `json:"configuration_id"`
	Name            string        `json:"name"`
	StartDate       time.Time     `json:"start_date"`
	State           InstanceState `json:"state"`
	EndDate         *time.Time    `json:"end_date,omitempty"`
}

// Cancelled reports whether the instance has been cancelled.
func (i *Instance) Cancelled() bool {
	return i.State == StateCancelled
}

// Cancel transitions the instance to Cancelled and stamps the end date.
// The transition is one-way; cancelling twice is rejected by the service.
func (i *Instance) Cancel(endDate time.Time) {
	i.State = StateCancelled
	i.EndDate = &endDate
}

// Client is a billed customer, identified by tax ID (NIT), owning its
// instances in insertion order.
type Client struct {
	NIT           string      `json:"nit"`
	Name          string      `json:"name"`
	Username      string      `json:"username"`
	AccessKeyHash string      `json:"-"`
	Address       string      `json:"address"`
	Email         string      `json:"email"`
	Instances     []*Instance `json:"instances"`
}

// InstanceByID returns the client's instance with the given id, or nil.
func (c *Client) InstanceByID(id int) *Instance {
	for _, inst := range c.Instances {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}
