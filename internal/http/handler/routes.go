package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", ListDocuments(docSvc))
	app.Get("/documents/export", ExportDocuments(docSvc))

	app.Post("/entities", CreateEntity(docSvc))
	app.Get("/entities", ListEntities(docSvc))
	app.Get("/entities/:id/pending", ListPending(docSvc))

	docs := app.Group("/entities/:id/documents")
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Get("/:docId", GetDocument(docSvc))
	docs.Patch("/:docId", UpdateDocument(docSvc))
	docs.Delete("/:docId", DeleteDocument(docSvc))
	docs.Post("/:docId/verify", VerifyDocument(docSvc))
	docs.Post("/:docId/reject", RejectDocument(docSvc))
	docs.Get("/:docId/download", DownloadDocument(docSvc))
}
