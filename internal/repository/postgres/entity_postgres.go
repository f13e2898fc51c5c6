package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

// EntityPostgres is a PostgreSQL implementation of repository.EntityRepository.
type EntityPostgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewEntityPostgres creates a new EntityPostgres repository.
func NewEntityPostgres(db *sql.DB) *EntityPostgres {
	return &EntityPostgres{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.EntityRepository = (*EntityPostgres)(nil)

const entityColumns = `id, kind, name, documents, pending, updated_at`

// Create inserts a new entity row and returns the stored record.
func (r *EntityPostgres) Create(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	docs, pending, err := encodeArrays(e.Documents, e.Pending)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO entities (id, kind, name, documents, pending, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + entityColumns
	row := r.db.QueryRowContext(ctx, q, e.ID, string(e.Kind), e.Name, docs, pending, r.now())
	return scanEntity(row)
}

// FindByID fetches a single entity by its ID.
func (r *EntityPostgres) FindByID(ctx context.Context, id string) (*model.Entity, error) {
	const q = `SELECT ` + entityColumns + ` FROM entities WHERE id = $1`
	return scanEntity(r.db.QueryRowContext(ctx, q, id))
}

// List returns entities, optionally restricted to one kind.
func (r *EntityPostgres) List(ctx context.Context, f repository.EntityFilter) ([]model.Entity, error) {
	q := `SELECT ` + entityColumns + ` FROM entities`
	var args []any
	if f.Kind != "" {
		q += ` WHERE kind = $1`
		args = append(args, string(f.Kind))
	}
	q += ` ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ReplaceDocuments writes the full arrays back in one statement.
func (r *EntityPostgres) ReplaceDocuments(ctx context.Context, id string, documents []string, pending []model.PendingSlot) error {
	docs, pend, err := encodeArrays(documents, pending)
	if err != nil {
		return err
	}
	const q = `UPDATE entities SET documents = $2, pending = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, docs, pend, r.now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(s scanner) (*model.Entity, error) {
	var (
		e                model.Entity
		kind             string
		docsRaw, pendRaw []byte
	)
	if err := s.Scan(&e.ID, &kind, &e.Name, &docsRaw, &pendRaw, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Kind = model.EntityKind(kind)
	if len(docsRaw) > 0 {
		docs, err := decodeDocuments(docsRaw)
		if err != nil {
			return nil, fmt.Errorf("entity %s: documents column: %w", e.ID, err)
		}
		e.Documents = docs
	}
	if len(pendRaw) > 0 {
		if err := json.Unmarshal(pendRaw, &e.Pending); err != nil {
			return nil, fmt.Errorf("entity %s: pending column: %w", e.ID, err)
		}
	}
	if e.Documents == nil {
		e.Documents = []string{}
	}
	if e.Pending == nil {
		e.Pending = []model.PendingSlot{}
	}
	return &e, nil
}

// decodeDocuments reads the documents array element by element. String elements
// are taken as is; any other element is kept as its raw JSON text and left to
// the codec to accept or skip.
func decodeDocuments(raw []byte) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(elems))
	for _, el := range elems {
		el = bytes.TrimSpace(el)
		if len(el) > 0 && el[0] == '"' {
			var v string
			if err := json.Unmarshal(el, &v); err != nil {
				return nil, err
			}
			out = append(out, v)
			continue
		}
		out = append(out, string(el))
	}
	return out, nil
}

func encodeArrays(documents []string, pending []model.PendingSlot) (string, string, error) {
	if documents == nil {
		documents = []string{}
	}
	if pending == nil {
		pending = []model.PendingSlot{}
	}
	d, err := json.Marshal(documents)
	if err != nil {
		return "", "", fmt.Errorf("encode documents: %w", err)
	}
	p, err := json.Marshal(pending)
	if err != nil {
		return "", "", fmt.Errorf("encode pending: %w", err)
	}
	return string(d), string(p), nil
}
