package index

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/document"
	"hrdocs/internal/model"
)

func stored(id string, typ model.DocumentType, uploaded time.Time) string {
	return fmt.Sprintf(`{"id":%q,"name":%q,"type":%q,"fileName":"%s.pdf","uploadedAt":%q}`,
		id, id, typ, id, uploaded.Format(time.RFC3339))
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestMaterialize_SortsNewestFirst(t *testing.T) {
	t1 := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(-24 * time.Hour)
	t3 := t2.Add(-24 * time.Hour)

	a := model.Entity{ID: "e1", Name: "Alice", Kind: model.KindEmployee, Documents: []string{stored("d3", model.TypePhoto, t3), stored("d1", model.TypeIDProof, t1)}}
	b := model.Entity{ID: "e2", Name: "Bob", Kind: model.KindCandidate, Documents: []string{stored("d2", model.TypeCertificate, t2)}}

	codec := document.New()
	for _, order := range [][]model.Entity{{a, b}, {b, a}} {
		entries, stats := Materialize(codec, order)
		assert.Equal(t, []string{"d1", "d2", "d3"}, ids(entries))
		assert.Equal(t, Stats{Entities: 2, Decoded: 3}, stats)
	}
}

func TestMaterialize_TiesAreTotal(t *testing.T) {
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := model.Entity{ID: "e2", Documents: []string{stored("b", model.TypeOther, same), stored("a", model.TypeOther, same)}}
	b := model.Entity{ID: "e1", Documents: []string{stored("z", model.TypeOther, same)}}

	codec := document.New()
	first, _ := Materialize(codec, []model.Entity{a, b})
	second, _ := Materialize(codec, []model.Entity{b, a})

	assert.Equal(t, []string{"z", "a", "b"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestMaterialize_ToleratesCorruptEntries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []string{}
	valid := 0
	for i := 0; i < 5; i++ {
		docs = append(docs, stored(fmt.Sprintf("ok-%d", i), model.TypeOther, base.Add(time.Duration(i)*time.Hour)))
		valid++
		docs = append(docs, "{bad json", `{"no":"id"}`)
	}
	ent := model.Entity{ID: "e1", Name: "Alice", Documents: docs}
	before := append([]string(nil), ent.Documents...)

	entries, stats := Materialize(document.New(), []model.Entity{ent})

	assert.Len(t, entries, valid)
	assert.Equal(t, 10, stats.Skipped)
	assert.Equal(t, before, ent.Documents)
}

func TestMaterialize_ScenarioDefaultName(t *testing.T) {
	ent := model.Entity{ID: "P1", Name: "Parent", Documents: []string{
		"{bad json",
		`{"id":"d1","type":"photo","fileName":"x.png","uploadedAt":"2024-01-01T00:00:00Z"}`,
	}}

	entries, _ := Materialize(document.New(), []model.Entity{ent})

	require.Len(t, entries, 1)
	assert.Equal(t, "d1", entries[0].ID)
	assert.Equal(t, "x.png", entries[0].Name)
	assert.Equal(t, "P1", entries[0].ParentID)
	assert.Equal(t, "Parent", entries[0].ParentName)
}

func TestMaterialize_Empty(t *testing.T) {
	entries, stats := Materialize(document.New(), nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Zero(t, stats.Decoded)
}

func TestEntry_MarshalJSON(t *testing.T) {
	e := Entry{
		DocumentRecord: model.DocumentRecord{
			ID:       "d1",
			Name:     "Offer",
			Type:     model.TypeOfferLetter,
			FileSize: 2048,
			Data:     "data:application/pdf;base64,AAAA",
			Status:   model.StatusUnderReview,
		},
		ParentID:   "P1",
		ParentName: "Pat",
		ParentKind: model.KindCandidate,
	}

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "d1", got["id"])
	assert.Equal(t, "P1", got["parentId"])
	assert.Equal(t, "candidate", got["parentKind"])
	assert.Equal(t, "Offer Letters", got["category"])
	assert.Equal(t, "Offer Letter", got["typeLabel"])
	assert.Equal(t, "2.0 KiB", got["sizeLabel"])
	assert.Equal(t, true, got["hasData"])
	assert.NotContains(t, got, "data")
}

func TestSizeLabel(t *testing.T) {
	assert.Equal(t, "0 B", SizeLabel(-5))
	assert.Equal(t, "10 MiB", SizeLabel(10<<20))
}
