package domain

import (
	"context"
	"errors"
	"time"
)

type CreateClientRequest struct {
	NIT       string
	Name      string
	Username  string
	AccessKey string
	Address   string
	Email     string
}

// ImportClientRequest carries a client from the configuration feed,
// access key already in the feed's clear form, with nested instances.
type ImportClientRequest struct {
	NIT       string
	Name      string
	Username  string
	AccessKey string
	Address   string
	Email     string
	Instances []*Instance
}

type CreateInstanceRequest struct {
	ClientNIT       string
	ConfigurationID int
	Name            string
	StartDate       time.Time
}

// InstanceView is an instance flattened with its owning client, used by
// listings that span all clients.
type InstanceView struct {
	Instance
	ClientNIT  string `json:"client_nit"`
	ClientName string `json:"client_name"`
}

type Service interface {
	CreateClient(context.Context, CreateClientRequest) (Client, error)
	// ImportClient registers a feed client; returns false without error
	// when the NIT is already present.
	ImportClient(context.Context, ImportClientRequest) (bool, error)
	ListClients(context.Context) ([]Client, error)
	ClientByNIT(context.Context, string) (Client, error)
	DeleteClient(context.Context, string) error

	CreateInstance(context.Context, CreateInstanceRequest) (Instance, error)
	ListInstances(context.Context) ([]InstanceView, error)
	CancelInstance(ctx context.Context, nit string, instanceID int, endDate time.Time) (Instance, error)
}

var (
	ErrInvalidNIT        = errors.New("invalid_nit")
	ErrInvalidState      = errors.New("invalid_instance_state")
	ErrNITExists         = errors.New("nit_exists")
	ErrClientNotFound    = errors.New("client_not_found")
	ErrInstanceNotFound  = errors.New("instance_not_found")
	ErrInstanceCancelled = errors.New("instance_already_cancelled")
	ErrDuplicateInstance = errors.New("duplicate_instance_id")
	ErrMissingAccessKey  = errors.New("missing_access_key")
)
