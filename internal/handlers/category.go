package handlers

import (
	"time"

	"payva/internal/middleware"
	"payva/internal/services/category"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categories category.Service
}

func NewCategoryHandler(categories category.Service) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	created, err := h.categories.Create(c.Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Created(c, created)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid category id")
	}

	found, err := h.categories.Get(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, found)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, categories)
}

func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid category id")
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	updated, err := h.categories.Rename(c.Context(), middleware.CurrentUser(c), id, req.Name)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, updated)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid category id")
	}

	if err := h.categories.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"status": "deleted"})
}

// Spendings reports the finalized spending total of a category, with
// optional RFC 3339 from/to bounds.
func (h *CategoryHandler) Spendings(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid category id")
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "invalid from date")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "invalid to date")
		}
		to = &t
	}

	total, err := h.categories.Spendings(c.Context(), middleware.CurrentUser(c), id, from, to)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"category_id": id, "total": total})
}
