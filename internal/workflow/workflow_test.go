package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/model"
)

var at = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func underReview() model.DocumentRecord {
	return model.DocumentRecord{ID: "d1", Type: model.TypeIDProof, Status: model.StatusUnderReview}
}

func TestVerify(t *testing.T) {
	rec := underReview()
	require.NoError(t, Verify(&rec, "", at))

	assert.Equal(t, model.StatusVerified, rec.Status)
	assert.Equal(t, DefaultVerifiedNote, rec.Notes)
	require.NotNil(t, rec.ReviewedAt)
	assert.Equal(t, at, *rec.ReviewedAt)
}

func TestReject_KeepsSuppliedNotes(t *testing.T) {
	rec := underReview()
	require.NoError(t, Reject(&rec, "  photo is blurry ", at))

	assert.Equal(t, model.StatusRejected, rec.Status)
	assert.Equal(t, "photo is blurry", rec.Notes)
}

func TestReject_DefaultNote(t *testing.T) {
	rec := underReview()
	require.NoError(t, Reject(&rec, "", at))
	assert.Equal(t, DefaultRejectedNote, rec.Notes)
}

func TestReviewLegality(t *testing.T) {
	for _, from := range []model.Status{
		model.StatusVerified,
		model.StatusRejected,
		model.StatusPending,
		model.StatusNotStarted,
		model.StatusNone,
	} {
		for name, fn := range map[string]func(*model.DocumentRecord, string, time.Time) error{
			"verify": Verify,
			"reject": Reject,
		} {
			rec := model.DocumentRecord{ID: "d1", Status: from, Notes: "old"}
			before := rec

			err := fn(&rec, "new", at)

			assert.ErrorIs(t, err, ErrIllegalTransition, "%s from %q", name, from)
			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, from, te.From)
			assert.Equal(t, before, rec, "record mutated by illegal %s", name)
		}
	}
}

func TestVerifyThenReject_SingleTerminalState(t *testing.T) {
	rec := underReview()

	require.NoError(t, Verify(&rec, "", at))
	err := Reject(&rec, "", at.Add(time.Second))

	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, model.StatusVerified, rec.Status)
	assert.Equal(t, DefaultVerifiedNote, rec.Notes)
	assert.Equal(t, at, *rec.ReviewedAt)
}

func TestTransitionError_Message(t *testing.T) {
	err := &TransitionError{DocumentID: "d9", From: model.StatusNone, Action: ActionVerify}
	assert.Equal(t, `illegal workflow transition: cannot verify document d9 in state "untracked"`, err.Error())
}

func TestCanDelete(t *testing.T) {
	for _, s := range []model.Status{model.StatusUnderReview, model.StatusVerified, model.StatusRejected, model.StatusNone} {
		assert.NoError(t, CanDelete(model.DocumentRecord{ID: "d", Status: s}), "status %q", s)
	}
	for _, s := range []model.Status{model.StatusPending, model.StatusNotStarted} {
		assert.ErrorIs(t, CanDelete(model.DocumentRecord{ID: "d", Status: s}), ErrIllegalTransition, "status %q", s)
	}
}

func TestClearSlot(t *testing.T) {
	pending := []model.PendingSlot{
		{Type: model.TypeIDProof, Status: model.StatusPending},
		{Type: model.TypePhoto, Status: model.StatusPending},
		{Type: model.TypeIDProof, Status: model.StatusNotStarted},
	}

	got := ClearSlot(pending, model.TypeIDProof)

	assert.Equal(t, []model.PendingSlot{{Type: model.TypePhoto, Status: model.StatusPending}}, got)
	assert.Len(t, pending, 3)
}

func TestReinstateSlot(t *testing.T) {
	got := ReinstateSlot(nil, model.TypeEducational, at)
	require.Len(t, got, 1)
	assert.Equal(t, model.TypeEducational, got[0].Type)
	assert.Equal(t, model.StatusPending, got[0].Status)
	assert.Equal(t, at, *got[0].RequestedAt)

	again := ReinstateSlot(got, model.TypeEducational, at.Add(time.Hour))
	assert.Equal(t, got, again)
}

func TestOutstanding(t *testing.T) {
	required := []model.DocumentType{model.TypeIDProof, model.TypeEducational, model.TypePhoto, model.TypeExperienceLetter}
	records := []model.DocumentRecord{
		{ID: "a", Type: model.TypeIDProof, Status: model.StatusVerified},
		{ID: "b", Type: model.TypePhoto, Status: model.StatusRejected},
		{ID: "c", Type: model.TypeOther, Status: model.StatusUnderReview},
	}
	requested := at
	pending := []model.PendingSlot{{Type: model.TypeExperienceLetter, Status: model.StatusPending, RequestedAt: &requested}}

	got := Outstanding(required, records, pending)

	assert.Equal(t, []model.PendingSlot{
		{Type: model.TypeExperienceLetter, Status: model.StatusPending, RequestedAt: &requested},
		{Type: model.TypeEducational, Status: model.StatusNotStarted},
		{Type: model.TypePhoto, Status: model.StatusNotStarted},
	}, got)
}
