package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrdocs/internal/config"
	"hrdocs/internal/document"
	"hrdocs/internal/events"
	"hrdocs/internal/logger"
	"hrdocs/internal/metrics"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
	"hrdocs/internal/storage"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("document not found")
	ErrEntityNotFound  = errors.New("entity not found")
	ErrInvalidEntity   = errors.New("invalid entity")
	ErrInvalidProfile  = errors.New("unknown upload profile")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidPatch    = errors.New("invalid document update")
)

// IsValidationError reports whether err was caused by caller input.
func IsValidationError(err error) bool {
	return document.IsValidationError(err) ||
		errors.Is(err, ErrIDRequired) ||
		errors.Is(err, ErrInvalidEntity) ||
		errors.Is(err, ErrInvalidProfile) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidPatch)
}

// UploadProfile selects the size ceiling and content restrictions of an upload.
type UploadProfile string

const (
	ProfileGeneral     UploadProfile = "general"
	ProfileRecruitment UploadProfile = "recruitment"
	ProfilePhoto       UploadProfile = "photo"
)

// Config carries the document rules that vary per deployment.
type Config struct {
	Limits                 map[UploadProfile]document.Limits
	RequiredCandidateTypes []model.DocumentType
}

// ConfigFrom maps environment configuration to service rules. Unknown
// required types are ignored.
func ConfigFrom(c config.DocumentsConfig) Config {
	required := make([]model.DocumentType, 0, len(c.RequiredCandidateTypes))
	for _, t := range c.RequiredCandidateTypes {
		if dt := model.DocumentType(strings.TrimSpace(t)); dt.Valid() {
			required = append(required, dt)
		}
	}
	return Config{
		Limits: map[UploadProfile]document.Limits{
			ProfileGeneral:     {MaxBytes: c.MaxGeneralBytes},
			ProfileRecruitment: {MaxBytes: c.MaxRecruitmentBytes},
			ProfilePhoto:       {MaxBytes: c.MaxPhotoBytes, ImagesOnly: true},
		},
		RequiredCandidateTypes: required,
	}
}

// Deps are the collaborators of the document service. Only Repo is required.
type Deps struct {
	Repo    repository.EntityRepository
	Store   storage.Storage
	Events  events.Publisher
	Metrics *metrics.DocumentMetrics
	Codec   *document.Codec
	Log     *slog.Logger
	Now     func() time.Time
}

type documentService struct {
	repo    repository.EntityRepository
	store   storage.Storage
	events  events.Publisher
	metrics *metrics.DocumentMetrics
	codec   *document.Codec
	log     *slog.Logger
	now     func() time.Time
	cfg     Config
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(d Deps, cfg Config) DocumentService {
	s := &documentService{
		repo:    d.Repo,
		store:   d.Store,
		events:  d.Events,
		metrics: d.Metrics,
		codec:   d.Codec,
		log:     d.Log,
		now:     d.Now,
		cfg:     cfg,
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.codec == nil {
		s.codec = document.New()
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.With("component", "document_service")
	return s
}

// loadEntity fetches the parent, translating a missing row.
func (s *documentService) loadEntity(ctx context.Context, parentID string) (*model.Entity, error) {
	if parentID == "" {
		return nil, ErrIDRequired
	}
	ent, err := s.repo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return ent, nil
}

// locate finds docID among the parent's stored entries. Entries that do not
// decode are passed over, never rewritten.
func (s *documentService) locate(ent *model.Entity, docID string) (int, model.DocumentRecord, error) {
	if docID == "" {
		return -1, model.DocumentRecord{}, ErrIDRequired
	}
	for i, raw := range ent.Documents {
		rec, err := s.codec.Decode(raw)
		if err != nil {
			continue
		}
		if rec.ID == docID {
			return i, rec, nil
		}
	}
	return -1, model.DocumentRecord{}, ErrNotFound
}

// persist writes the full replacement arrays for the parent.
func (s *documentService) persist(ctx context.Context, ent *model.Entity, docs []string, pending []model.PendingSlot) error {
	if err := s.repo.ReplaceDocuments(ctx, ent.ID, docs, pending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEntityNotFound
		}
		return err
	}
	ent.Documents = docs
	ent.Pending = pending
	return nil
}

func (s *documentService) publish(ctx context.Context, kind events.Kind, parentID string, rec model.DocumentRecord) {
	ev := events.Event{
		Kind:       kind,
		ParentID:   parentID,
		DocumentID: rec.ID,
		Type:       rec.Type,
		Status:     rec.Status,
		At:         s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("event_publish_failed",
			"event", string(kind),
			"parent_id", parentID,
			"document_id", rec.ID,
			"error_message", err.Error(),
		)
	}
}

func (s *documentService) decodeAll(ent *model.Entity) []model.DocumentRecord {
	records, skipped := s.codec.DecodeAll(ent.Documents)
	s.noteSkipped(ent.ID, skipped)
	return records
}

func (s *documentService) noteSkipped(parentID string, skipped int) {
	if skipped == 0 {
		return
	}
	s.metrics.DecodeSkipped(skipped)
	s.log.Debug("decode_skipped", "parent_id", parentID, "skipped", skipped)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in), len(in)+1)
	copy(out, in)
	return out
}

func clonePending(in []model.PendingSlot) []model.PendingSlot {
	out := make([]model.PendingSlot, len(in))
	copy(out, in)
	return out
}

func wrapPersist(op string, err error) error {
	if errors.Is(err, ErrEntityNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
