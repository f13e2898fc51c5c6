// Package index flattens the documents held by a set of parent entities into one list,
// newest first. It keeps no state between calls.
package index

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/dustin/go-humanize"

	"hrdocs/internal/model"
	"hrdocs/internal/taxonomy"
)

// Decoder turns stored entries into records, dropping the ones it cannot read.
type Decoder interface {
	DecodeAll(entries []string) ([]model.DocumentRecord, int)
}

// Entry is a decoded record linked to the entity that holds it.
type Entry struct {
	model.DocumentRecord
	ParentID   string
	ParentName string
	ParentKind model.EntityKind
}

// Category resolves the entry's category from its type.
func (e Entry) Category() model.Category {
	return taxonomy.CategoryOf(e.Type)
}

// MarshalJSON renders the record with its parent linkage and derived display fields.
func (e Entry) MarshalJSON() ([]byte, error) {
	type view struct {
		model.DocumentRecord
		ParentID   string           `json:"parentId"`
		ParentName string           `json:"parentName"`
		ParentKind model.EntityKind `json:"parentKind"`
		Category   model.Category   `json:"category"`
		TypeLabel  string           `json:"typeLabel"`
		SizeLabel  string           `json:"sizeLabel"`
		HasData    bool             `json:"hasData"`
	}
	return json.Marshal(view{
		DocumentRecord: e.DocumentRecord,
		ParentID:       e.ParentID,
		ParentName:     e.ParentName,
		ParentKind:     e.ParentKind,
		Category:       e.Category(),
		TypeLabel:      taxonomy.LabelOf(e.Type),
		SizeLabel:      SizeLabel(e.FileSize),
		HasData:        e.HasPayload(),
	})
}

// SizeLabel formats a byte count for display.
func SizeLabel(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Stats describes one materialization.
type Stats struct {
	Entities int
	Decoded  int
	Skipped  int
}

// Materialize decodes every entity's documents, attaches the parent identity and sorts
// the result by upload time descending. Ties are broken by parent id, then document id,
// so the order does not depend on the order of entities. entities is not modified.
func Materialize(dec Decoder, entities []model.Entity) ([]Entry, Stats) {
	stats := Stats{Entities: len(entities)}
	entries := make([]Entry, 0)

	for _, ent := range entities {
		records, skipped := dec.DecodeAll(ent.Documents)
		stats.Skipped += skipped
		stats.Decoded += len(records)
		for _, r := range records {
			entries = append(entries, Entry{
				DocumentRecord: r,
				ParentID:       ent.ID,
				ParentName:     ent.Name,
				ParentKind:     ent.Kind,
			})
		}
	}

	slices.SortStableFunc(entries, compareEntries)
	return entries, stats
}

func compareEntries(a, b Entry) int {
	if c := b.UploadedAt.Compare(a.UploadedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ParentID, b.ParentID); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
