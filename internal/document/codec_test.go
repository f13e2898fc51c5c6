package document

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/model"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 123456789, time.UTC)

func newTestCodec() *Codec {
	n := 0
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return "doc-" + strings.Repeat("x", n)
		}),
	)
}

func TestCodec_Encode(t *testing.T) {
	c := newTestCodec()

	rec, err := c.Encode(
		File{Name: "offer.pdf", MimeType: "application/pdf", Content: strings.NewReader("%PDF-1.4 hello")},
		Metadata{Type: model.TypeOfferLetter, Description: "  signed copy "},
		Limits{MaxBytes: 10 << 20},
	)
	require.NoError(t, err)

	assert.Equal(t, "doc-x", rec.ID)
	assert.Equal(t, "offer", rec.Name)
	assert.Equal(t, model.TypeOfferLetter, rec.Type)
	assert.Equal(t, "signed copy", rec.Description)
	assert.Equal(t, "offer.pdf", rec.FileName)
	assert.Equal(t, int64(14), rec.FileSize)
	assert.Equal(t, "application/pdf", rec.MimeType)
	assert.Equal(t, model.StatusUnderReview, rec.Status)
	assert.Equal(t, fixedNow, rec.UploadedAt)
	assert.True(t, strings.HasPrefix(rec.Data, "data:application/pdf;base64,"))

	mimeType, payload, err := Payload(rec)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)
	assert.Equal(t, "%PDF-1.4 hello", string(payload))
}

func TestCodec_EncodeDefaults(t *testing.T) {
	c := newTestCodec()

	rec, err := c.Encode(File{Name: "notes", Content: strings.NewReader("x")}, Metadata{}, Limits{})
	require.NoError(t, err)
	assert.Equal(t, model.TypeOther, rec.Type)
	assert.Equal(t, "notes", rec.Name)
	assert.Equal(t, DefaultMimeType, rec.MimeType)

	rec, err = c.Encode(File{Name: ".env", Content: strings.NewReader("x")}, Metadata{Name: " Env file "}, Limits{})
	require.NoError(t, err)
	assert.Equal(t, "Env file", rec.Name)

	rec, err = c.Encode(File{Content: strings.NewReader("x")}, Metadata{}, Limits{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", rec.Name)
}

func TestCodec_EncodeSizeCeiling(t *testing.T) {
	const ceiling = 2048
	c := newTestCodec()

	tests := []struct {
		name    string
		size    int
		wantErr error
	}{
		{name: "at ceiling", size: ceiling},
		{name: "one byte over", size: ceiling + 1, wantErr: ErrFileTooLarge},
		{name: "far over", size: ceiling * 4, wantErr: ErrFileTooLarge},
		{name: "empty", size: 0, wantErr: ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := File{Name: "a.bin", Content: bytes.NewReader(make([]byte, tt.size))}
			rec, err := c.Encode(f, Metadata{Type: model.TypeOther}, Limits{MaxBytes: ceiling})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidationError(err))
				assert.Empty(t, rec.ID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), rec.FileSize)
		})
	}
}

func TestCodec_EncodeImagesOnly(t *testing.T) {
	c := newTestCodec()
	lim := Limits{MaxBytes: 2 << 20, ImagesOnly: true}

	_, err := c.Encode(File{Name: "cv.pdf", MimeType: "application/pdf", Content: strings.NewReader("x")}, Metadata{Type: model.TypePhoto}, lim)
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, err = c.Encode(File{Name: "cv", Content: strings.NewReader("x")}, Metadata{Type: model.TypePhoto}, lim)
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	rec, err := c.Encode(File{Name: "me.PNG", MimeType: "Image/PNG", Content: strings.NewReader("x")}, Metadata{Type: model.TypePhoto}, lim)
	require.NoError(t, err)
	assert.Equal(t, "me", rec.Name)
}

func TestCodec_EncodeRejects(t *testing.T) {
	c := newTestCodec()

	_, err := c.Encode(File{Name: "a"}, Metadata{}, Limits{})
	assert.ErrorIs(t, err, ErrReaderNil)

	_, err = c.Encode(File{Name: "a", Content: strings.NewReader("x")}, Metadata{Type: "payslip"}, Limits{})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = c.Encode(File{Name: "a", Content: failingReader{}}, Metadata{}, Limits{})
	assert.ErrorContains(t, err, "read file")
	assert.False(t, IsValidationError(err))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec()
	reviewed := fixedNow.Add(time.Hour)

	encoded, err := c.Encode(
		File{Name: "passport.jpg", MimeType: "image/jpeg", Content: strings.NewReader("jpegbytes")},
		Metadata{Type: model.TypeIDProof, Name: "Passport", Description: "front page"},
		Limits{MaxBytes: 1 << 20},
	)
	require.NoError(t, err)

	verified := encoded
	verified.Status = model.StatusVerified
	verified.Notes = "Document verified successfully."
	verified.ReviewedAt = &reviewed

	metadataOnly := model.DocumentRecord{
		ID:         "legacy-1",
		Name:       "Degree",
		Type:       model.TypeEducational,
		FileName:   "degree.pdf",
		FileSize:   1024,
		MimeType:   "application/pdf",
		UploadedAt: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	for _, r := range []model.DocumentRecord{encoded, verified, metadataOnly} {
		got, err := c.Decode(c.Serialize(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestCodec_DecodeDefaults(t *testing.T) {
	decodeNow := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c := New(WithClock(func() time.Time { return decodeNow }))

	rec, err := c.Decode(`{"id":"d1","type":"photo","fileName":"x.png","uploadedAt":"2024-01-01T00:00:00Z"}`)
	require.NoError(t, err)
	assert.Equal(t, "d1", rec.ID)
	assert.Equal(t, "x.png", rec.Name)
	assert.Equal(t, model.TypePhoto, rec.Type)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.UploadedAt)
	assert.Equal(t, DefaultMimeType, rec.MimeType)
	assert.Empty(t, rec.Data)
	assert.Equal(t, model.StatusNone, rec.Status)

	rec, err = c.Decode(`{"id":"d2","type":"payslip","fileSize":"2048","status":"archived","extra":{"a":1}}`)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", rec.Name)
	assert.Equal(t, model.TypeOther, rec.Type)
	assert.Equal(t, int64(2048), rec.FileSize)
	assert.Equal(t, decodeNow, rec.UploadedAt)
	assert.Equal(t, model.StatusNone, rec.Status)

	rec, err = c.Decode(`{"id":"d3","uploadedAt":"yesterday","fileSize":"big","reviewedAt":"nope"}`)
	require.NoError(t, err)
	assert.Equal(t, decodeNow, rec.UploadedAt)
	assert.Zero(t, rec.FileSize)
	assert.Nil(t, rec.ReviewedAt)
}

func TestCodec_DecodeMalformed(t *testing.T) {
	c := newTestCodec()

	for _, in := range []string{
		"{bad json",
		"",
		"null",
		`"a string"`,
		`[{"id":"d1"}]`,
		`{"name":"no id"}`,
		`{"id":"   "}`,
		`{"id":{"n":1}}`,
		`{"id":null}`,
	} {
		_, err := c.Decode(in)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}

func TestCodec_DecodeNumericFields(t *testing.T) {
	c := newTestCodec()

	rec, err := c.Decode(`{"id":1700000000123,"name":2024,"description":7,"fileName":["x"],"uploadedAt":"2024-01-01T00:00:00Z"}`)
	require.NoError(t, err)
	assert.Equal(t, "1700000000123", rec.ID)
	assert.Equal(t, "2024", rec.Name)
	assert.Equal(t, "7", rec.Description)
	assert.Empty(t, rec.FileName)

	again, err := c.Decode(c.Serialize(rec))
	require.NoError(t, err)
	assert.Equal(t, rec, again)
	assert.Contains(t, c.Serialize(rec), `"id":"1700000000123"`)
}

func TestCodec_DecodeAll(t *testing.T) {
	c := newTestCodec()

	records, skipped := c.DecodeAll([]string{
		`{"id":"a","uploadedAt":"2024-01-01T00:00:00Z"}`,
		"{bad json",
		`{"id":"b","uploadedAt":"2024-01-02T00:00:00Z"}`,
		`42`,
	})
	assert.Equal(t, 2, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
}

func TestCodec_DecodeAll_NonStringElements(t *testing.T) {
	c := newTestCodec()

	records, skipped := c.DecodeAll([]string{`{"id":"d3"}`, `42`, `null`, `true`})
	assert.Equal(t, 3, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "d3", records[0].ID)
}

func TestPayload_NoData(t *testing.T) {
	_, _, err := Payload(model.DocumentRecord{ID: "x"})
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestPlaceholderText(t *testing.T) {
	text := PlaceholderText(model.DocumentRecord{
		Name:       "Degree",
		Type:       model.TypeEducational,
		FileName:   "degree.pdf",
		FileSize:   1024,
		MimeType:   "application/pdf",
		UploadedAt: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:     model.StatusVerified,
	})
	assert.Contains(t, text, "Document: Degree")
	assert.Contains(t, text, "degree.pdf (1024 bytes, application/pdf)")
	assert.Contains(t, text, "Status: Verified")
	assert.Contains(t, text, "not captured")
}
