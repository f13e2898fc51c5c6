package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"hrdocs/internal/model"
	"hrdocs/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

var _ service.DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) CreateEntity(ctx context.Context, in model.Entity) (*model.Entity, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entity), args.Error(1)
}

func (m *MockDocumentService) ListEntities(ctx context.Context, kind model.EntityKind) ([]model.Entity, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entity), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, parentID string, in service.UploadInput) (*model.DocumentRecord, error) {
	args := m.Called(ctx, parentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, q service.ListQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, parentID, docID string) (*model.DocumentRecord, error) {
	args := m.Called(ctx, parentID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Verify(ctx context.Context, parentID, docID, notes string) (*model.DocumentRecord, error) {
	args := m.Called(ctx, parentID, docID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Reject(ctx context.Context, parentID, docID, notes string) (*model.DocumentRecord, error) {
	args := m.Called(ctx, parentID, docID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, parentID, docID string, patch service.DocumentPatch) (*model.DocumentRecord, error) {
	args := m.Called(ctx, parentID, docID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, parentID, docID string) error {
	args := m.Called(ctx, parentID, docID)
	return args.Error(0)
}

func (m *MockDocumentService) Pending(ctx context.Context, parentID string) ([]model.PendingSlot, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PendingSlot), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, parentID, docID string) (*service.Download, error) {
	args := m.Called(ctx, parentID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

// Export writes the string returned as the first mocked value, if any.
func (m *MockDocumentService) Export(ctx context.Context, q service.ListQuery, w io.Writer) error {
	args := m.Called(ctx, q, w)
	if body, ok := args.Get(0).(string); ok && body != "" {
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
	}
	return args.Error(1)
}
