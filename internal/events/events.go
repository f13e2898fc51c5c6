// Package events publishes document workflow notifications. Publishing is
// best effort: the entity update has already been persisted when an event is
// emitted, so callers log failures instead of returning them.
package events

import (
	"context"
	"time"

	"hrdocs/internal/model"
)

// Kind names a workflow event.
type Kind string

const (
	KindUploaded Kind = "document.uploaded"
	KindVerified Kind = "document.verified"
	KindRejected Kind = "document.rejected"
	KindDeleted  Kind = "document.deleted"
)

// Event is the JSON payload sent to subscribers.
type Event struct {
	Kind       Kind               `json:"kind"`
	ParentID   string             `json:"parentId"`
	DocumentID string             `json:"documentId"`
	Type       model.DocumentType `json:"type"`
	Status     model.Status       `json:"status,omitempty"`
	At         time.Time          `json:"at"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close()                               {}
