package repository

import (
	"context"

	"hrdocs/internal/model"
)

// EntityRepository is persistence for parent entities and their serialized
// document arrays. It holds no document semantics: the arrays are stored and
// returned as-is.
type EntityRepository interface {
	// Create inserts a new entity. Documents and Pending may be nil.
	Create(ctx context.Context, e *model.Entity) (*model.Entity, error)

	// FindByID returns sql.ErrNoRows when the entity does not exist.
	FindByID(ctx context.Context, id string) (*model.Entity, error)

	// List returns entities ordered by name, then id.
	List(ctx context.Context, f EntityFilter) ([]model.Entity, error)

	// ReplaceDocuments overwrites the whole documents array and pending list.
	// Returns sql.ErrNoRows when no entity matched.
	ReplaceDocuments(ctx context.Context, id string, documents []string, pending []model.PendingSlot) error
}

// EntityFilter narrows List. The zero value matches everything.
type EntityFilter struct {
	Kind model.EntityKind
}
