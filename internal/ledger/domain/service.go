package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type RecordRequest struct {
	ClientNIT  string
	InstanceID int
	Hours      decimal.Decimal
	RecordedAt time.Time
}

type Service interface {
	// Record validates the event against the registry and appends an
	// unbilled record with the next global consumption id.
	Record(context.Context, RecordRequest) (Record, error)
	List(context.Context) ([]Record, error)
	UnbilledByClient(context.Context, string) ([]Record, error)
	ByInstance(context.Context, int) ([]Record, error)
}

var (
	ErrInvalidHours     = errors.New("invalid_hours")
	ErrClientNotFound   = errors.New("client_not_found")
	ErrInstanceNotFound = errors.New("instance_not_found")
)
