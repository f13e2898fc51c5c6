// Package workflow is the verification state machine for document records and the
// pending-documents side list kept by the recruitment flow.
//
//	Pending / Not Started --upload--> Under Review --verify--> Verified
//	                                       |
//	                                       +------reject-----> Rejected
//	Under Review / Verified / Rejected --delete--> (removed, placeholder reinstated)
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hrdocs/internal/model"
)

// ErrIllegalTransition means a caller asked for a transition the current state does not
// allow. Clients only offer legal actions, so this points at stale client state.
var ErrIllegalTransition = errors.New("illegal workflow transition")

const (
	DefaultVerifiedNote = "Document verified successfully."
	DefaultRejectedNote = "Document rejected. Please re-upload a valid document."
)

// Action names an administrative transition.
type Action string

const (
	ActionVerify Action = "verify"
	ActionReject Action = "reject"
	ActionDelete Action = "delete"
)

// TransitionError carries the rejected transition; it matches ErrIllegalTransition.
type TransitionError struct {
	DocumentID string
	From       model.Status
	Action     Action
}

func (e *TransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "untracked"
	}
	return fmt.Sprintf("%s: cannot %s document %s in state %q", ErrIllegalTransition, e.Action, e.DocumentID, from)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// Verify moves rec from Under Review to Verified. rec is not modified on error.
func Verify(rec *model.DocumentRecord, notes string, at time.Time) error {
	return review(rec, ActionVerify, model.StatusVerified, notes, DefaultVerifiedNote, at)
}

// Reject moves rec from Under Review to Rejected. The record is kept so it stays visible.
func Reject(rec *model.DocumentRecord, notes string, at time.Time) error {
	return review(rec, ActionReject, model.StatusRejected, notes, DefaultRejectedNote, at)
}

func review(rec *model.DocumentRecord, action Action, to model.Status, notes, fallback string, at time.Time) error {
	if rec.Status != model.StatusUnderReview {
		return &TransitionError{DocumentID: rec.ID, From: rec.Status, Action: action}
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = fallback
	}
	reviewed := at.UTC()
	rec.Status = to
	rec.Notes = notes
	rec.ReviewedAt = &reviewed
	return nil
}

// CanDelete reports whether rec may be removed. Placeholder states never belong to a
// real record, so a record carrying one is stale.
func CanDelete(rec model.DocumentRecord) error {
	switch rec.Status {
	case model.StatusPending, model.StatusNotStarted:
		return &TransitionError{DocumentID: rec.ID, From: rec.Status, Action: ActionDelete}
	}
	return nil
}

// ClearSlot drops every placeholder for t; used when a document of that type arrives.
func ClearSlot(pending []model.PendingSlot, t model.DocumentType) []model.PendingSlot {
	out := make([]model.PendingSlot, 0, len(pending))
	for _, s := range pending {
		if s.Type != t {
			out = append(out, s)
		}
	}
	return out
}

// ReinstateSlot adds a Pending placeholder for t unless one already exists.
func ReinstateSlot(pending []model.PendingSlot, t model.DocumentType, at time.Time) []model.PendingSlot {
	out := make([]model.PendingSlot, 0, len(pending)+1)
	out = append(out, pending...)
	for _, s := range pending {
		if s.Type == t {
			return out
		}
	}
	requested := at.UTC()
	return append(out, model.PendingSlot{Type: t, Status: model.StatusPending, RequestedAt: &requested})
}

// Outstanding returns the stored placeholders followed by a Not Started slot for every
// required type that has neither a placeholder nor a live (non-rejected) record.
func Outstanding(required []model.DocumentType, records []model.DocumentRecord, pending []model.PendingSlot) []model.PendingSlot {
	out := make([]model.PendingSlot, 0, len(pending)+len(required))
	out = append(out, pending...)

	covered := make(map[model.DocumentType]bool, len(pending)+len(records))
	for _, s := range pending {
		covered[s.Type] = true
	}
	for _, r := range records {
		if r.Status != model.StatusRejected {
			covered[r.Type] = true
		}
	}
	for _, t := range required {
		if covered[t] {
			continue
		}
		covered[t] = true
		out = append(out, model.PendingSlot{Type: t, Status: model.StatusNotStarted})
	}
	return out
}
