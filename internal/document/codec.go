// Package document converts uploaded files into DocumentRecords and records to and from
// the JSON string form stored inside a parent entity's documents array.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrdocs/internal/model"
)

const (
	DefaultMimeType = "application/octet-stream"
	untitled        = "Untitled"
)

var (
	ErrReaderNil       = errors.New("reader is nil")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrUnknownType     = errors.New("unknown document type")
	ErrMalformed       = errors.New("malformed document record")
	ErrNoPayload       = errors.New("document has no captured payload")
)

// IsValidationError reports whether err is a user-input rejection from Encode.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrInvalidMimeType) ||
		errors.Is(err, ErrUnknownType)
}

// Limits are the call-site upload constraints. MaxBytes <= 0 disables the ceiling.
type Limits struct {
	MaxBytes   int64
	ImagesOnly bool
}

// File is an uploaded file as received from the client.
type File struct {
	Name     string
	MimeType string
	Content  io.Reader
}

// Metadata is the user-supplied description of an upload.
type Metadata struct {
	Type        model.DocumentType
	Name        string
	Description string
}

// Codec encodes and decodes document records. The zero value is not usable; use New.
type Codec struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for uploadedAt and decode defaults.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(c *Codec) {
		c.newID = fn
	}
}

// New constructs a Codec that stamps wall-clock time and time-ordered UUIDv7 ids.
func New(opts ...Option) *Codec {
	c := &Codec{
		now:   time.Now,
		newID: newTimeOrderedID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Encode reads the whole file and produces a new record in Under Review.
// Nothing is returned on a validation failure.
func (c *Codec) Encode(f File, meta Metadata, lim Limits) (model.DocumentRecord, error) {
	if f.Content == nil {
		return model.DocumentRecord{}, ErrReaderNil
	}

	typ := meta.Type
	if typ == "" {
		typ = model.TypeOther
	}
	if !typ.Valid() {
		return model.DocumentRecord{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	mimeType := strings.TrimSpace(f.MimeType)
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	if lim.ImagesOnly && !strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return model.DocumentRecord{}, fmt.Errorf("%w: %s is not an image", ErrInvalidMimeType, mimeType)
	}

	r := f.Content
	if lim.MaxBytes > 0 {
		r = io.LimitReader(f.Content, lim.MaxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return model.DocumentRecord{}, fmt.Errorf("read file: %w", err)
	}
	if len(content) == 0 {
		return model.DocumentRecord{}, ErrEmptyFile
	}
	if lim.MaxBytes > 0 && int64(len(content)) > lim.MaxBytes {
		return model.DocumentRecord{}, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, lim.MaxBytes)
	}

	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = baseName(f.Name)
	}

	return model.DocumentRecord{
		ID:          c.newID(),
		Name:        name,
		Type:        typ,
		Description: strings.TrimSpace(meta.Description),
		FileName:    f.Name,
		FileSize:    int64(len(content)),
		MimeType:    mimeType,
		Data:        DataURI(mimeType, content),
		UploadedAt:  c.now().UTC(),
		Status:      model.StatusUnderReview,
	}, nil
}

func baseName(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == "/" {
		return untitled
	}
	if n := strings.TrimSuffix(base, filepath.Ext(base)); n != "" {
		return n
	}
	return base
}

// wireRecord is the stored JSON shape. Timestamps are kept as strings so that a bad
// timestamp defaults instead of failing the whole record.
type wireRecord struct {
	ID          flexText `json:"id"`
	Name        flexText `json:"name"`
	Type        flexText `json:"type"`
	Description flexText `json:"description"`
	FileName    flexText `json:"fileName"`
	FileSize    flexSize `json:"fileSize"`
	MimeType    flexText `json:"mimeType"`
	Data        flexText `json:"data"`
	UploadedAt  flexText `json:"uploadedAt"`
	Status      flexText `json:"status,omitempty"`
	Notes       flexText `json:"notes,omitempty"`
	ReviewedAt  flexText `json:"reviewedAt,omitempty"`
}

// flexSize accepts a JSON number or a numeric string; anything else reads as zero.
type flexSize int64

func (s *flexSize) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil || n < 0 {
		*s = 0
		return nil
	}
	*s = flexSize(n)
	return nil
}

// flexText accepts a JSON string or number, keeping a number's literal text.
// Other values read as empty. It always marshals as a string.
type flexText string

func (s *flexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexText(v)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err == nil {
		*s = flexText(b)
		return nil
	}
	*s = ""
	return nil
}

// Serialize renders a record in its stored form.
func (c *Codec) Serialize(r model.DocumentRecord) string {
	w := wireRecord{
		ID:          flexText(r.ID),
		Name:        flexText(r.Name),
		Type:        flexText(r.Type),
		Description: flexText(r.Description),
		FileName:    flexText(r.FileName),
		FileSize:    flexSize(r.FileSize),
		MimeType:    flexText(r.MimeType),
		Data:        flexText(r.Data),
		UploadedAt:  flexText(r.UploadedAt.UTC().Format(time.RFC3339Nano)),
		Status:      flexText(r.Status),
		Notes:       flexText(r.Notes),
	}
	if r.ReviewedAt != nil {
		w.ReviewedAt = flexText(r.ReviewedAt.UTC().Format(time.RFC3339Nano))
	}
	// Only strings and integers: marshalling cannot fail.
	b, _ := json.Marshal(w)
	return string(b)
}

// SerializeAll renders records in order.
func (c *Codec) SerializeAll(records []model.DocumentRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, c.Serialize(r))
	}
	return out
}

// Decode parses one stored entry, defaulting missing fields. It fails with ErrMalformed
// when the entry is not a JSON object or has no id.
func (c *Codec) Decode(serialized string) (model.DocumentRecord, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(serialized), &w); err != nil {
		return model.DocumentRecord{}, errors.Join(ErrMalformed, err)
	}
	id := strings.TrimSpace(string(w.ID))
	if id == "" {
		return model.DocumentRecord{}, fmt.Errorf("%w: missing id", ErrMalformed)
	}

	rec := model.DocumentRecord{
		ID:          id,
		Name:        string(w.Name),
		Type:        model.DocumentType(w.Type),
		Description: string(w.Description),
		FileName:    string(w.FileName),
		FileSize:    int64(w.FileSize),
		MimeType:    string(w.MimeType),
		Data:        string(w.Data),
		Status:      model.Status(w.Status),
		Notes:       string(w.Notes),
	}

	if strings.TrimSpace(rec.Name) == "" {
		rec.Name = rec.FileName
	}
	if strings.TrimSpace(rec.Name) == "" {
		rec.Name = untitled
	}
	if !rec.Type.Valid() {
		rec.Type = model.TypeOther
	}
	if rec.MimeType == "" {
		rec.MimeType = DefaultMimeType
	}
	if !rec.Status.Valid() {
		rec.Status = model.StatusNone
	}

	if t, err := time.Parse(time.RFC3339Nano, string(w.UploadedAt)); err == nil {
		rec.UploadedAt = t.UTC()
	} else {
		rec.UploadedAt = c.now().UTC()
	}
	if w.ReviewedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, string(w.ReviewedAt)); err == nil {
			t = t.UTC()
			rec.ReviewedAt = &t
		}
	}
	return rec, nil
}

// DecodeAll decodes every entry, omitting the ones that fail. skipped counts the omissions.
func (c *Codec) DecodeAll(entries []string) (records []model.DocumentRecord, skipped int) {
	records = make([]model.DocumentRecord, 0, len(entries))
	for _, e := range entries {
		rec, err := c.Decode(e)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// Payload returns the decoded binary of a record.
func Payload(r model.DocumentRecord) (string, []byte, error) {
	if !r.HasPayload() {
		return "", nil, ErrNoPayload
	}
	return ParseDataURI(r.Data)
}

// PlaceholderText describes a record whose binary content is unavailable.
func PlaceholderText(r model.DocumentRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", r.Name)
	fmt.Fprintf(&b, "Type: %s\n", r.Type)
	if r.FileName != "" {
		fmt.Fprintf(&b, "Original file: %s (%d bytes, %s)\n", r.FileName, r.FileSize, r.MimeType)
	}
	fmt.Fprintf(&b, "Uploaded: %s\n", r.UploadedAt.UTC().Format(time.RFC3339))
	if r.Status != model.StatusNone {
		fmt.Fprintf(&b, "Status: %s\n", r.Status)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", r.Description)
	}
	b.WriteString("\nThe file content was not captured for this record.\n")
	return b.String()
}
