package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreateResourceRequest struct {
	Name         string
	Abbreviation string
	UnitMetric   string
	Kind         string
	PricePerHour decimal.Decimal
}

type CreateCategoryRequest struct {
	Name        string
	Description string
	Workload    string
}

type ResourceQuantityRequest struct {
	ResourceID int
	Quantity   decimal.Decimal
}

type CreateConfigurationRequest struct {
	CategoryID  int
	Name        string
	Description string
	Resources   []ResourceQuantityRequest
}

// ConfigurationView is a configuration flattened with its owning category
// and the derived cost per hour, used by listings.
type ConfigurationView struct {
	Configuration
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CostPerHour  decimal.Decimal `json:"cost_per_hour"`
}

type Service interface {
	CreateResource(context.Context, CreateResourceRequest) (Resource, error)
	// ImportResource registers a resource carrying its feed-assigned id.
	// Returns false without error when the id is already present.
	ImportResource(context.Context, Resource) (bool, error)
	ListResources(context.Context) ([]Resource, error)
	ResourceByID(context.Context, int) (Resource, error)
	DeleteResource(context.Context, int) error

	CreateCategory(context.Context, CreateCategoryRequest) (Category, error)
	// ImportCategory registers a category (with nested configurations)
	// carrying feed-assigned ids. Returns false when the id already exists.
	ImportCategory(context.Context, Category) (bool, error)
	ListCategories(context.Context) ([]Category, error)
	CategoryByID(context.Context, int) (Category, error)
	DeleteCategory(context.Context, int) error

	CreateConfiguration(context.Context, CreateConfigurationRequest) (Configuration, error)
	ListConfigurations(context.Context) ([]ConfigurationView, error)
	ConfigurationByID(context.Context, int) (Configuration, error)
}

var (
	ErrInvalidKind      = errors.New("invalid_resource_kind")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrResourceNotFound = errors.New("resource_not_found")
	ErrCategoryNotFound = errors.New("category_not_found")
	ErrConfigNotFound   = errors.New("configuration_not_found")
	ErrResourceInUse    = errors.New("resource_in_use")
	ErrCategoryNotEmpty = errors.New("category_not_empty")
)
