package handlers

import (
	"payva/internal/middleware"
	"payva/internal/repositories"
	"payva/internal/services/user"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the employee back office. Routes using it must be
// guarded by middleware.RequireEmployee.
type AdminHandler struct {
	users        user.Service
	userRepo     repositories.UserRepository
	transactions repositories.TransactionRepository
}

func NewAdminHandler(users user.Service, userRepo repositories.UserRepository, transactions repositories.TransactionRepository) *AdminHandler {
	return &AdminHandler{users: users, userRepo: userRepo, transactions: transactions}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	users, total, err := h.userRepo.ListAll(limit, offset)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	transactions, total, err := h.transactions.ListAll(limit, offset)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transactions": transactions,
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	})
}

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

func (h *AdminHandler) SetBlocked(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}
	var req blockRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	if err := h.users.SetBlocked(c.Context(), middleware.CurrentUser(c), id, req.Blocked); err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"user_id": id, "blocked": req.Blocked})
}
