package handler

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/document"
	"hrdocs/internal/http/middleware"
	"hrdocs/internal/service"
	"hrdocs/internal/workflow"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

func writeValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    "VALIDATION_FAILED",
			Message: "request validation failed",
			Fields:  fields,
		},
	})
}

type errorMapping struct {
	target error
	status int
	code   string
	// expose returns err.Error() to the client; otherwise message is used.
	expose  bool
	message string
}

var errorMappings = []errorMapping{
	{target: service.ErrIDRequired, status: fiber.StatusBadRequest, code: "ID_REQUIRED", message: "id is required"},
	{target: document.ErrFileTooLarge, status: fiber.StatusRequestEntityTooLarge, code: "FILE_TOO_LARGE", expose: true},
	{target: document.ErrEmptyFile, status: fiber.StatusBadRequest, code: "EMPTY_FILE", expose: true},
	{target: document.ErrInvalidMimeType, status: fiber.StatusBadRequest, code: "INVALID_MIME_TYPE", expose: true},
	{target: document.ErrUnknownType, status: fiber.StatusBadRequest, code: "UNKNOWN_TYPE", expose: true},
	{target: service.ErrInvalidProfile, status: fiber.StatusBadRequest, code: "INVALID_PROFILE", expose: true},
	{target: service.ErrUnknownCategory, status: fiber.StatusBadRequest, code: "UNKNOWN_CATEGORY", expose: true},
	{target: service.ErrInvalidEntity, status: fiber.StatusBadRequest, code: "INVALID_ENTITY", expose: true},
	{target: service.ErrInvalidPatch, status: fiber.StatusBadRequest, code: "INVALID_PATCH", expose: true},
	{target: service.ErrEntityNotFound, status: fiber.StatusNotFound, code: "ENTITY_NOT_FOUND", message: "entity not found"},
	{target: service.ErrNotFound, status: fiber.StatusNotFound, code: "NOT_FOUND", message: "document not found"},
	{target: sql.ErrNoRows, status: fiber.StatusNotFound, code: "NOT_FOUND", message: "document not found"},
	{target: workflow.ErrIllegalTransition, status: fiber.StatusConflict, code: "ILLEGAL_TRANSITION", expose: true},
}

// writeServiceError translates a service error into the error envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if m.expose {
				msg = err.Error()
			}
			return writeError(c, m.status, m.code, msg)
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
