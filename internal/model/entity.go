package model

import "time"

// EntityKind distinguishes the two parents documents can be attached to.
type EntityKind string

const (
	KindEmployee  EntityKind = "employee"
	KindCandidate EntityKind = "candidate"
)

// Valid reports whether k is a known kind.
func (k EntityKind) Valid() bool {
	return k == KindEmployee || k == KindCandidate
}

// Entity is a parent record (employee or recruitment candidate).
// Documents holds serialized DocumentRecords; order is not meaningful.
type Entity struct {
	ID        string        `json:"id"`
	Kind      EntityKind    `json:"kind"`
	Name      string        `json:"name"`
	Documents []string      `json:"-"`
	Pending   []PendingSlot `json:"pending"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TracksPending reports whether the entity keeps a pending-documents side list.
// Only the recruitment flow does.
func (e Entity) TracksPending() bool {
	return e.Kind == KindCandidate
}

// PendingSlot is a placeholder for a document that is expected but not yet received.
// It is never a DocumentRecord. RequestedAt is nil for computed Not Started slots.
type PendingSlot struct {
	Type        DocumentType `json:"type"`
	Status      Status       `json:"status"`
	RequestedAt *time.Time   `json:"requestedAt,omitempty"`
}
