// Package domain declares the XML feed ingestion contract. Two message
// kinds exist: configuration feeds (catalog plus clients) and consumption
// feeds (usage records).
package domain

import (
	"context"
	"errors"
)

// ConfigurationResult counts what a configuration feed actually created.
// Entities whose ids were already registered are skipped, not counted.
type ConfigurationResult struct {
	ResourcesCreated  int `json:"resources_created"`
	CategoriesCreated int `json:"categories_created"`
	ClientsCreated    int `json:"clients_created"`
	InstancesCreated  int `json:"instances_created"`
}

type Service interface {
	Configuration(ctx context.Context, data []byte) (ConfigurationResult, error)
	// Consumption ingests a usage feed and returns how many records were
	// registered before the first failure, if any.
	Consumption(ctx context.Context, data []byte) (int, error)
}

var (
	ErrMalformedXML = errors.New("malformed_xml")
	ErrInvalidDate  = errors.New("invalid_date")
)
