// Package catalog exposes read-only snapshots of the reporting entities and
// chart of accounts. The validator checks extracted records against these
// snapshots; it never queries live.
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Entity is a reporting entity (company, branch, cost center).
type Entity struct {
	ID   uuid.UUID
	Code string
	Name string
}

// Account is a chart-of-accounts entry. Code may be a dot-separated
// hierarchical code such as 1.2.01.
type Account struct {
	ID   uuid.UUID
	Code string
	Name string
}

// Repository supplies lookup snapshots for validation.
type Repository interface {
	ListEntities(ctx context.Context) ([]Entity, error)
	ListAccounts(ctx context.Context) ([]Account, error)
}
