package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

// CreateEntity registers a parent. A missing ID is generated.
func (s *documentService) CreateEntity(ctx context.Context, in model.Entity) (*model.Entity, error) {
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidEntity, in.Kind)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidEntity)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	ent, err := s.repo.Create(ctx, &model.Entity{
		ID:        id,
		Kind:      in.Kind,
		Name:      name,
		Documents: []string{},
		Pending:   []model.PendingSlot{},
	})
	if err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}
	s.log.Info("entity_created", "parent_id", ent.ID, "kind", string(ent.Kind))
	return ent, nil
}

// ListEntities lists parents, optionally of one kind.
func (s *documentService) ListEntities(ctx context.Context, kind model.EntityKind) ([]model.Entity, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidEntity, kind)
	}
	return s.repo.List(ctx, repository.EntityFilter{Kind: kind})
}
