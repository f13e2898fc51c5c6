package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/config"
	"hrdocs/internal/logger"
)

func TestArchiveKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"plain", "offer.pdf", "documents/P1/d1/offer.pdf"},
		{"nested path flattened", "../../etc/passwd", "documents/P1/d1/.._.._etc_passwd"},
		{"windows path", `C:\scans\id.png`, "documents/P1/d1/C:_scans_id.png"},
		{"blank", "  ", "documents/P1/d1/file"},
		{"dot dot", "..", "documents/P1/d1/file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArchiveKey("P1", "d1", tt.fileName))
		})
	}
}

func TestNewMinIO_DisabledWithoutEndpoint(t *testing.T) {
	s, err := NewMinIO(context.Background(), config.MinIOConfig{}, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestNewMinIO_RequiresCredentials(t *testing.T) {
	_, err := NewMinIO(context.Background(), config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, logger.Discard())
	assert.EqualError(t, err, "minio credentials are required")

	_, err = NewMinIO(context.Background(), config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, logger.Discard())
	assert.EqualError(t, err, "minio bucket is required")
}
