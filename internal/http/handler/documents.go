package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/document"
	"hrdocs/internal/export"
	"hrdocs/internal/model"
	"hrdocs/internal/service"
)

const maxIDLength = 128

// pathID reads a route parameter and rejects blank or oversized values.
func pathID(c *fiber.Ctx, name string) (string, bool) {
	id := strings.TrimSpace(c.Params(name))
	if id == "" || len(id) > maxIDLength {
		return "", false
	}
	return id, true
}

// parseListQuery returns an error code and message when paging params are not integers.
func parseListQuery(c *fiber.Ctx) (service.ListQuery, string, string) {
	q := service.ListQuery{
		ParentID: strings.TrimSpace(c.Params("id")),
		Category: model.Category(c.Query("category")),
		Search:   c.Query("q"),
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return q, "INVALID_LIMIT", "invalid limit"
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return q, "INVALID_OFFSET", "invalid offset"
	}
	q.Limit, q.Offset = limit, offset
	return q, "", ""
}

// ListDocuments queries documents across all entities, or one entity when
// mounted under /entities/:id.
//
// @Summary  Query documents
// @Tags     documents
// @Produce  json
// @Param    category query string false "category name, e.g. ID Proofs"
// @Param    q        query string false "search term"
// @Param    limit    query int    false "page size" default(10)
// @Param    offset   query int    false "page offset" default(0)
// @Success  200 {object} service.DocumentListResult
// @Failure  400 {object} errorPayload
// @Router   /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, code, msg := parseListQuery(c)
		if code != "" {
			return writeError(c, fiber.StatusBadRequest, code, msg)
		}
		res, err := svc.List(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ExportDocuments streams the filtered query as an XLSX workbook.
//
// @Summary  Export documents
// @Tags     documents
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param    category query string false "category name"
// @Param    q        query string false "search term"
// @Success  200 {file} file
// @Router   /documents/export [get]
func ExportDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := service.ListQuery{
			Category: model.Category(c.Query("category")),
			Search:   c.Query("q"),
		}
		var buf bytes.Buffer
		if err := svc.Export(c.UserContext(), q, &buf); err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, export.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="documents.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

// detectMimeType trusts the client's declared type unless it is missing or
// generic, in which case the content is sniffed and f rewound.
func detectMimeType(f multipart.File, declared string) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != document.DefaultMimeType {
		return declared, nil
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	media, _, _ := strings.Cut(mt.String(), ";")
	return strings.TrimSpace(media), nil
}

// UploadDocument accepts multipart/form-data with a "file" part.
//
// @Summary  Upload document
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    id          path     string true  "entity id"
// @Param    file        formData file   true  "document"
// @Param    type        formData string false "document type"
// @Param    name        formData string false "display name"
// @Param    description formData string false "description"
// @Param    profile     formData string false "general, recruitment or photo"
// @Success  201 {object} model.DocumentRecord
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Router   /entities/{id}/documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, ok := pathID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		var form uploadForm
		if err := c.BodyParser(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid form fields")
		}
		if fields := validateStruct(form); fields != nil {
			return writeValidationError(c, fields)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct, err := detectMimeType(f, fh.Header.Get("Content-Type"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		rec, err := svc.Upload(c.UserContext(), parentID, service.UploadInput{
			File:        document.File{Name: fh.Filename, MimeType: ct, Content: f},
			Type:        model.DocumentType(form.Type),
			Name:        form.Name,
			Description: form.Description,
			Profile:     service.UploadProfile(form.Profile),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

func docParams(c *fiber.Ctx) (string, string, bool) {
	parentID, ok := pathID(c, "id")
	if !ok {
		return "", "", false
	}
	docID, ok := pathID(c, "docId")
	if !ok {
		return "", "", false
	}
	return parentID, docID, true
}

// GetDocument returns one record without its binary payload.
//
// @Summary  Get document
// @Tags     documents
// @Produce  json
// @Param    id    path string true "entity id"
// @Param    docId path string true "document id"
// @Success  200 {object} model.DocumentRecord
// @Failure  404 {object} errorPayload
// @Router   /entities/{id}/documents/{docId} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, docID, ok := docParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), parentID, docID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// UpdateDocument applies a corrective edit to name and description.
//
// @Summary  Edit document
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    id    path string       true "entity id"
// @Param    docId path string       true "document id"
// @Param    body  body patchRequest true "fields to change"
// @Success  200 {object} model.DocumentRecord
// @Router   /entities/{id}/documents/{docId} [patch]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, docID, ok := docParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req patchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if fields := validateStruct(req); fields != nil {
			return writeValidationError(c, fields)
		}
		rec, err := svc.Update(c.UserContext(), parentID, docID, service.DocumentPatch{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// DeleteDocument removes a record.
//
// @Summary  Delete document
// @Tags     documents
// @Param    id    path string true "entity id"
// @Param    docId path string true "document id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /entities/{id}/documents/{docId} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, docID, ok := docParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), parentID, docID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type reviewFunc func(svc service.DocumentService, c *fiber.Ctx, parentID, docID, notes string) (*model.DocumentRecord, error)

func reviewHandler(svc service.DocumentService, fn reviewFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, docID, ok := docParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req reviewRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
			}
		}
		if fields := validateStruct(req); fields != nil {
			return writeValidationError(c, fields)
		}
		rec, err := fn(svc, c, parentID, docID, req.Notes)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// VerifyDocument moves an Under Review document to Verified.
//
// @Summary  Verify document
// @Tags     workflow
// @Accept   json
// @Produce  json
// @Param    id    path string        true  "entity id"
// @Param    docId path string        true  "document id"
// @Param    body  body reviewRequest false "optional notes"
// @Success  200 {object} model.DocumentRecord
// @Failure  409 {object} errorPayload
// @Router   /entities/{id}/documents/{docId}/verify [post]
func VerifyDocument(svc service.DocumentService) fiber.Handler {
	return reviewHandler(svc, func(svc service.DocumentService, c *fiber.Ctx, parentID, docID, notes string) (*model.DocumentRecord, error) {
		return svc.Verify(c.UserContext(), parentID, docID, notes)
	})
}

// RejectDocument moves an Under Review document to Rejected.
//
// @Summary  Reject document
// @Tags     workflow
// @Accept   json
// @Produce  json
// @Param    id    path string        true  "entity id"
// @Param    docId path string        true  "document id"
// @Param    body  body reviewRequest false "optional notes"
// @Success  200 {object} model.DocumentRecord
// @Failure  409 {object} errorPayload
// @Router   /entities/{id}/documents/{docId}/reject [post]
func RejectDocument(svc service.DocumentService) fiber.Handler {
	return reviewHandler(svc, func(svc service.DocumentService, c *fiber.Ctx, parentID, docID, notes string) (*model.DocumentRecord, error) {
		return svc.Reject(c.UserContext(), parentID, docID, notes)
	})
}

// DownloadDocument returns the document binary as an attachment.
//
// @Summary  Download document
// @Tags     documents
// @Produce  octet-stream
// @Param    id    path string true "entity id"
// @Param    docId path string true "document id"
// @Success  200 {file} file
// @Failure  404 {object} errorPayload
// @Router   /entities/{id}/documents/{docId}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID, docID, ok := docParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		d, err := svc.Download(c.UserContext(), parentID, docID)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, d.MimeType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", d.FileName))
		if d.Placeholder {
			c.Set("X-Document-Placeholder", "true")
		}
		return c.Send(d.Content)
	}
}
