package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"hrdocs/internal/config"
	"hrdocs/internal/document"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// steppingClock advances one minute per call so upload order is observable.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("d%d", n)
	}
}

func testConfig() Config {
	return ConfigFrom(config.DocumentsConfig{
		MaxGeneralBytes:        10 << 20,
		MaxRecruitmentBytes:    5 << 20,
		MaxPhotoBytes:          2 << 20,
		RequiredCandidateTypes: []string{"id_proof", "educational", "experience_letter", "photo"},
	})
}

func testDeps(repo repository.EntityRepository) Deps {
	clock := steppingClock()
	return Deps{
		Repo:  repo,
		Codec: document.New(document.WithClock(clock), document.WithIDGenerator(sequentialIDs())),
		Now:   clock,
	}
}

// serialized returns the stored form of a record built from the fields given.
func serialized(rec model.DocumentRecord) string {
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = baseTime
	}
	return document.New().Serialize(rec)
}

func textFile(name, body string) document.File {
	return document.File{Name: name, MimeType: "text/plain", Content: strings.NewReader(body)}
}

// memRepo is an in-memory EntityRepository that copies on every read and write.
type memRepo struct {
	mu       sync.Mutex
	entities map[string]model.Entity
	writes   int
}

func newMemRepo(ents ...model.Entity) *memRepo {
	r := &memRepo{entities: map[string]model.Entity{}}
	for _, e := range ents {
		r.entities[e.ID] = copyEntity(e)
	}
	return r
}

func copyEntity(e model.Entity) model.Entity {
	e.Documents = slices.Clone(e.Documents)
	e.Pending = slices.Clone(e.Pending)
	return e
}

func (r *memRepo) Create(_ context.Context, e *model.Entity) (*model.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entities[e.ID]; ok {
		return nil, fmt.Errorf("duplicate key %s", e.ID)
	}
	r.entities[e.ID] = copyEntity(*e)
	out := copyEntity(*e)
	return &out, nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*model.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := copyEntity(e)
	return &out, nil
}

func (r *memRepo) List(_ context.Context, f repository.EntityFilter) ([]model.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Entity, 0, len(r.entities))
	for _, e := range r.entities {
		if f.Kind == "" || e.Kind == f.Kind {
			out = append(out, copyEntity(e))
		}
	}
	slices.SortFunc(out, func(a, b model.Entity) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *memRepo) ReplaceDocuments(_ context.Context, id string, documents []string, pending []model.PendingSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Documents = slices.Clone(documents)
	e.Pending = slices.Clone(pending)
	r.entities[id] = e
	r.writes++
	return nil
}

func (r *memRepo) get(id string) model.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyEntity(r.entities[id])
}
