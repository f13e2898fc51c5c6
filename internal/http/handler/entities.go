package handler

import (
	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/model"
	"hrdocs/internal/service"
)

// CreateEntity registers an employee or candidate.
//
// @Summary  Create entity
// @Tags     entities
// @Accept   json
// @Produce  json
// @Param    body body createEntityRequest true "entity"
// @Success  201 {object} model.Entity
// @Failure  400 {object} errorPayload
// @Router   /entities [post]
func CreateEntity(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createEntityRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if fields := validateStruct(req); fields != nil {
			return writeValidationError(c, fields)
		}
		ent, err := svc.CreateEntity(c.UserContext(), model.Entity{
			ID:   req.ID,
			Kind: model.EntityKind(req.Kind),
			Name: req.Name,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ent)
	}
}

// ListEntities lists entities, optionally filtered by ?kind=.
//
// @Summary  List entities
// @Tags     entities
// @Produce  json
// @Param    kind query string false "employee or candidate"
// @Success  200 {object} map[string][]model.Entity
// @Router   /entities [get]
func ListEntities(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ents, err := svc.ListEntities(c.UserContext(), model.EntityKind(c.Query("kind")))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": ents})
	}
}

// ListPending lists placeholder slots and required documents not yet started.
//
// @Summary  Pending documents
// @Tags     entities
// @Produce  json
// @Param    id path string true "entity id"
// @Success  200 {object} map[string][]model.PendingSlot
// @Failure  404 {object} errorPayload
// @Router   /entities/{id}/pending [get]
func ListPending(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		slots, err := svc.Pending(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": slots})
	}
}
