package model

import "time"

// DocumentType is the closed enumeration of document kinds that can be attached to an entity.
type DocumentType string

const (
	TypeIDProof          DocumentType = "id_proof"
	TypeCertificate      DocumentType = "certificate"
	TypeOfferLetter      DocumentType = "offer_letter"
	TypePhoto            DocumentType = "photo"
	TypeBankDocument     DocumentType = "bank_document"
	TypeEducational      DocumentType = "educational"
	TypeExperienceLetter DocumentType = "experience_letter"
	TypeOther            DocumentType = "other"
)

// DocumentTypes lists every member of the enumeration in display order.
var DocumentTypes = []DocumentType{
	TypeIDProof,
	TypeCertificate,
	TypeOfferLetter,
	TypePhoto,
	TypeBankDocument,
	TypeEducational,
	TypeExperienceLetter,
	TypeOther,
}

// Valid reports whether t is a member of the enumeration.
func (t DocumentType) Valid() bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Status is the verification state of a document or placeholder slot.
type Status string

const (
	StatusNone        Status = ""
	StatusPending     Status = "Pending"
	StatusUnderReview Status = "Under Review"
	StatusVerified    Status = "Verified"
	StatusRejected    Status = "Rejected"
	StatusNotStarted  Status = "Not Started"
)

// Valid reports whether s is a known, non-empty status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusVerified, StatusRejected, StatusNotStarted:
		return true
	}
	return false
}

// Category is a user-facing grouping of document types.
type Category string

// DocumentRecord is one uploaded document as held inside its parent's documents array.
// Data carries the whole file as a data URI and is empty for metadata-only records;
// it is never rendered in API responses (see the download endpoint).
type DocumentRecord struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        DocumentType `json:"type"`
	Description string       `json:"description"`
	FileName    string       `json:"fileName"`
	FileSize    int64        `json:"fileSize"`
	MimeType    string       `json:"mimeType"`
	Data        string       `json:"-"`
	UploadedAt  time.Time    `json:"uploadedAt"`
	Status      Status       `json:"status,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	ReviewedAt  *time.Time   `json:"reviewedAt,omitempty"`
}

// HasPayload reports whether the binary content was captured.
func (d DocumentRecord) HasPayload() bool {
	return d.Data != ""
}
