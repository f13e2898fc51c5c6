package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"hrdocs/internal/document"
	"hrdocs/internal/events"
	"hrdocs/internal/export"
	"hrdocs/internal/index"
	"hrdocs/internal/model"
	"hrdocs/internal/query"
	"hrdocs/internal/repository"
	"hrdocs/internal/storage"
	"hrdocs/internal/taxonomy"
	"hrdocs/internal/workflow"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// UploadInput is one file plus the user-supplied metadata.
type UploadInput struct {
	File        document.File
	Type        model.DocumentType
	Name        string
	Description string
	// Profile defaults to recruitment for candidates and general for employees.
	Profile UploadProfile
}

// ListQuery selects documents. An empty ParentID queries every entity.
type ListQuery struct {
	ParentID string
	Category model.Category
	Search   string
	Limit    int
	Offset   int
}

// DocumentListResult is one page of a query. Counts are computed over the
// unfiltered index of the queried entities; Total is the filtered size.
type DocumentListResult struct {
	Items   []index.Entry          `json:"data"`
	Total   int                    `json:"total"`
	Counts  map[model.Category]int `json:"counts"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
	Skipped int                    `json:"skipped"`
}

// DocumentPatch is a corrective edit. Nil fields are left unchanged.
type DocumentPatch struct {
	Name        *string
	Description *string
}

// Download is the binary of a document, or a text placeholder when no
// content can be recovered.
type Download struct {
	FileName    string
	MimeType    string
	Content     []byte
	Placeholder bool
}

// DocumentService defines the document use cases.
//
// Every mutation reads the parent, changes one entry and writes the full
// documents array back. Two concurrent mutations on the same parent can
// therefore overwrite each other; callers that need stronger guarantees must
// serialize requests per parent.
type DocumentService interface {
	CreateEntity(ctx context.Context, in model.Entity) (*model.Entity, error)
	ListEntities(ctx context.Context, kind model.EntityKind) ([]model.Entity, error)

	// Upload validates and encodes the file, archives the raw bytes when an
	// archive is configured and appends the record to the parent.
	Upload(ctx context.Context, parentID string, in UploadInput) (*model.DocumentRecord, error)
	List(ctx context.Context, q ListQuery) (*DocumentListResult, error)
	Get(ctx context.Context, parentID, docID string) (*model.DocumentRecord, error)
	Verify(ctx context.Context, parentID, docID, notes string) (*model.DocumentRecord, error)
	Reject(ctx context.Context, parentID, docID, notes string) (*model.DocumentRecord, error)
	Update(ctx context.Context, parentID, docID string, patch DocumentPatch) (*model.DocumentRecord, error)
	Delete(ctx context.Context, parentID, docID string) error
	// Pending lists stored placeholders plus Not Started slots for required
	// types. It is empty for parents that do not track pending documents.
	Pending(ctx context.Context, parentID string) ([]model.PendingSlot, error)
	Download(ctx context.Context, parentID, docID string) (*Download, error)
	// Export writes the filtered query, unpaginated, as an XLSX workbook.
	Export(ctx context.Context, q ListQuery, w io.Writer) error
}

func (s *documentService) profileFor(ent *model.Entity, p UploadProfile) (UploadProfile, document.Limits, error) {
	if p == "" {
		p = ProfileGeneral
		if ent.Kind == model.KindCandidate {
			p = ProfileRecruitment
		}
	}
	lim, ok := s.cfg.Limits[p]
	if !ok {
		return "", document.Limits{}, fmt.Errorf("%w: %q", ErrInvalidProfile, p)
	}
	return p, lim, nil
}

func (s *documentService) Upload(ctx context.Context, parentID string, in UploadInput) (*model.DocumentRecord, error) {
	ent, err := s.loadEntity(ctx, parentID)
	if err != nil {
		return nil, err
	}
	profile, lim, err := s.profileFor(ent, in.Profile)
	if err != nil {
		return nil, err
	}
	typ := in.Type
	if profile == ProfilePhoto {
		typ = model.TypePhoto
	}

	rec, err := s.codec.Encode(in.File, document.Metadata{
		Type:        typ,
		Name:        in.Name,
		Description: in.Description,
	}, lim)
	if err != nil {
		return nil, err
	}

	var archived string
	if s.store != nil {
		_, content, err := document.Payload(rec)
		if err != nil {
			return nil, fmt.Errorf("read encoded payload: %w", err)
		}
		key := storage.ArchiveKey(ent.ID, rec.ID, rec.FileName)
		if _, err := s.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
			Size:        int64(len(content)),
			ContentType: rec.MimeType,
			Metadata: map[string]string{
				"parent-id":         ent.ID,
				"document-id":       rec.ID,
				"original-filename": rec.FileName,
			},
		}); err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		archived = key
	}

	pending := clonePending(ent.Pending)
	if ent.TracksPending() {
		pending = workflow.ClearSlot(pending, rec.Type)
	}
	docs := append(cloneStrings(ent.Documents), s.codec.Serialize(rec))

	if err := s.persist(ctx, ent, docs, pending); err != nil {
		if archived != "" {
			if delErr := s.store.Delete(ctx, archived); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, wrapPersist("db save failed", err)
	}

	s.metrics.Uploaded(rec.Type)
	s.log.Info("document_uploaded",
		"parent_id", ent.ID,
		"document_id", rec.ID,
		"type", string(rec.Type),
		"profile", string(profile),
		"file_size", rec.FileSize,
		"archived", archived != "",
	)
	s.publish(ctx, events.KindUploaded, ent.ID, rec)
	return &rec, nil
}

// materialize builds the index for the query's scope.
func (s *documentService) materialize(ctx context.Context, q ListQuery) ([]index.Entry, index.Stats, error) {
	if q.Category != "" && !taxonomy.IsCategory(q.Category) {
		return nil, index.Stats{}, fmt.Errorf("%w: %q", ErrUnknownCategory, q.Category)
	}
	var entities []model.Entity
	if q.ParentID != "" {
		ent, err := s.loadEntity(ctx, q.ParentID)
		if err != nil {
			return nil, index.Stats{}, err
		}
		entities = []model.Entity{*ent}
	} else {
		all, err := s.repo.List(ctx, repository.EntityFilter{})
		if err != nil {
			return nil, index.Stats{}, err
		}
		entities = all
	}
	entries, stats := index.Materialize(s.codec, entities)
	s.noteSkipped(q.ParentID, stats.Skipped)
	return entries, stats, nil
}

func (s *documentService) List(ctx context.Context, q ListQuery) (*DocumentListResult, error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	entries, stats, err := s.materialize(ctx, q)
	if err != nil {
		return nil, err
	}
	res := query.Run(entries, query.Query{Category: q.Category, Search: q.Search})

	start := min(q.Offset, len(res.Items))
	end := min(start+q.Limit, len(res.Items))
	return &DocumentListResult{
		Items:   res.Items[start:end],
		Total:   res.Total,
		Counts:  res.Counts,
		Limit:   q.Limit,
		Offset:  q.Offset,
		Skipped: stats.Skipped,
	}, nil
}

func (s *documentService) Export(ctx context.Context, q ListQuery, w io.Writer) error {
	entries, _, err := s.materialize(ctx, q)
	if err != nil {
		return err
	}
	res := query.Run(entries, query.Query{Category: q.Category, Search: q.Search})
	if err := export.WriteXLSX(w, res, s.now()); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func (s *documentService) Get(ctx context.Context, parentID, docID string) (*model.DocumentRecord, error) {
	ent, err := s.loadEntity(ctx, parentID)
	if err != nil {
		return nil, err
	}
	_, rec, err := s.locate(ent, docID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *documentService) Verify(ctx context.Context, parentID, docID, notes string) (*model.DocumentRecord, error) {
	return s.review(ctx, parentID, docID, notes, workflow.ActionVerify)
}

func (s *documentService) Reject(ctx context.Context, parentID, docID, notes string) (*model.DocumentRecord, error) {
	return s.review(ctx, parentID, docID, notes, workflow.ActionReject)
}

func (s *documentService) review(ctx context.Context, parentID, docID, notes string, action workflow.Action) (*model.DocumentRecord, error) {
	ent, err := s.loadEntity(ctx, parentID)
	if err != nil {
		return nil, err
	}
	idx, rec, err := s.locate(ent, docID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pending := clonePending(ent.Pending)
	kind := events.KindVerified
	switch action {
	case workflow.ActionVerify:
		err = workflow.Verify(&rec, notes, now)
	default:
		kind = events.KindRejected
		err = workflow.Reject(&rec, notes, now)
		if err == nil && ent.TracksPending() {
			pending = workflow.ReinstateSlot(pending, rec.Type, now)
		}
	}
	if err != nil {
		s.log.Warn("illegal_transition",
			"parent_id", parentID,
			"document_id", docID,
			"action", string(action),
			"error_message", err.Error(),
		)
		return nil, err
	}

	docs := cloneStrings(ent.Documents)
	docs[idx] = s.codec.Serialize(rec)
	if err := s.persist(ctx, ent, docs, pending); err != nil {
		return nil, wrapPersist("save review", err)
	}

	s.metrics.Transitioned(rec.Status)
	s.log.Info("document_reviewed",
		"parent_id", parentID,
		"document_id", docID,
		"status", string(rec.Status),
	)
	s.publish(ctx, kind, parentID, rec)
	return &rec, nil
}

func (s *documentService) Update(ctx context.Context, parentID, docID string, patch DocumentPatch) (*model.DocumentRecord, error) {
	if patch.Name == nil && patch.Description == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidPatch)
	}
	ent, err := s.loadEntity(ctx, parentID)
	if err != nil {
		return nil, err
	}
	idx, rec, err := s.locate(ent, docID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidPatch)
		}
		rec.Name = name
	}
	if patch.Description != nil {
		rec.Description = strings.TrimSpace(*patch.Description)
	}

	docs := cloneStrings(ent.Documents)
	docs[idx] = s.codec.Serialize(rec)
	if err := s.persist(ctx, ent, docs, clonePending(ent.Pending)); err != nil {
		return nil, wrapPersist("save update", err)
	}
	return &rec, nil
}

func (s *documentService) Delete(ctx context.Context, parentID, docID string) error {
	ent, err := s.loadEntity(ctx, parentID)
	if err != nil {
		return err
	}
	idx, rec, err := s.locate(ent, docID)
	if err != nil {
		return err
	}
	if err := workflow.CanDelete(rec); err != nil {
		s.log.Warn("illegal_transition",
			"parent_id", parentID,
			"document_id", docID,
			"action", string(workflow.ActionDelete),
			"error_message", err.Error(),
		)
		return err
	}

	// Archive first: a failed object delete leaves the record in place.
	if s.store != nil {
		if err := s.store.Delete(ctx, storage.ArchiveKey(ent.ID, rec.ID, rec.FileName)); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}

	docs := make([]string, 0, len(ent.Documents)-1)
	docs = append(docs, ent.Documents[:idx]...)
	docs = append(docs, ent.Documents[idx+1:]...)
	pending := clonePending(ent.Pending)
	if ent.TracksPending() {
		pending = workflow.ReinstateSlot(pending, rec.Type, s.now())
	}
	if err := s.persist(ctx, ent, docs, pending); err != nil {
		return wrapPersist("save delete", err)
	}

	s.metrics.Deleted()
	s.log.Info("document_deleted", "parent_id", parentID, "document_id", docID)
	s.publish(ctx, events.KindDeleted, parentID, rec)
	return nil
}

func (s *documentService) Pending(ctx context.Context, parentID string) ([]model.PendingSlot, error) {
	ent, err := s.loadEntity(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !ent.TracksPending() {
		return []model.PendingSlot{}, nil
	}
	return workflow.Outstanding(s.cfg.RequiredCandidateTypes, s.decodeAll(ent), ent.Pending), nil
}

func (s *documentService) Download(ctx context.Context, parentID, docID string) (*Download, error) {
	ent, err := s.loadEntity(ctx, parentID)
	if err != nil {
		return nil, err
	}
	_, rec, err := s.locate(ent, docID)
	if err != nil {
		return nil, err
	}

	fileName := rec.FileName
	if fileName == "" {
		fileName = rec.Name
	}

	if rec.HasPayload() {
		mimeType, content, err := document.Payload(rec)
		if err == nil {
			if rec.MimeType != "" {
				mimeType = rec.MimeType
			}
			return &Download{FileName: fileName, MimeType: mimeType, Content: content}, nil
		}
		s.log.Warn("payload_unreadable", "parent_id", parentID, "document_id", docID, "error_message", err.Error())
	}

	if s.store != nil {
		d, err := s.fromArchive(ctx, ent.ID, rec, fileName)
		if err == nil {
			return d, nil
		}
		s.log.Debug("archive_miss", "parent_id", parentID, "document_id", docID, "error_message", err.Error())
	}

	return &Download{
		FileName:    rec.Name + ".txt",
		MimeType:    "text/plain; charset=utf-8",
		Content:     []byte(document.PlaceholderText(rec)),
		Placeholder: true,
	}, nil
}

func (s *documentService) fromArchive(ctx context.Context, parentID string, rec model.DocumentRecord, fileName string) (*Download, error) {
	rc, info, err := s.store.Get(ctx, storage.ArchiveKey(parentID, rec.ID, rec.FileName))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	mimeType := info.ContentType
	if mimeType == "" {
		mimeType = rec.MimeType
	}
	return &Download{FileName: fileName, MimeType: mimeType, Content: content}, nil
}
